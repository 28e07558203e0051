package cmd

import (
	_ "icon-keeper/cmd/generate"
	_ "icon-keeper/cmd/root"
	_ "icon-keeper/cmd/search"
	_ "icon-keeper/cmd/server"
	_ "icon-keeper/cmd/service"
)
