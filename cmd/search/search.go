package search

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"icon-keeper/cmd/root"
	"icon-keeper/internal/config"
	"icon-keeper/internal/models"
	"icon-keeper/services"

	"github.com/spf13/cobra"
)

var (
	flagName  string
	flagNames string
	flagStyle string
	flagYes   bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search icons by name",
	Long:  `Search the icon server for icons by a single name or a comma separated list of names`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := searchIcons(context.Background()); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

/**
 * Search icons via the icon server
 * @param {context.Context} ctx - Context for request cancellation
 * @returns {error} Returns error if search fails, nil on success
 * @description
 * - Validates that exactly one of --name/--names was given
 * - If the server is unreachable, prints a diagnostic and offers
 *   to start it (ad-hoc poll policy) before issuing the request
 * - Prints each icon as "name (source)" in server order
 */
func searchIcons(ctx context.Context) error {
	query := models.SearchQuery{
		Name:  flagName,
		Style: models.IconStyle(flagStyle),
	}
	if flagNames != "" {
		query.Names = strings.Split(flagNames, ",")
	}
	if err := query.Validate(); err != nil {
		return err
	}

	cfg := &config.Config
	sup := services.NewProcessSupervisor(cfg)
	if !ensureServer(ctx, sup) {
		return models.NewFailure(models.ReasonServiceUnavailable,
			"icon server at %s is not running", cfg.Icon.Endpoint())
	}

	client := services.NewApiClient(cfg, sup)
	defer client.Close()

	icons, err := client.SearchIcons(ctx, query)
	if err != nil {
		return err
	}

	fmt.Printf("Found %d icon(s)\n", len(icons))
	for _, icon := range icons {
		fmt.Printf("  - %s (%s)\n", icon.Name, icon.Source)
	}
	return nil
}

/**
 * Make sure the icon server is reachable, offering an ad-hoc start
 * @param {context.Context} ctx - Context for request cancellation
 * @param {*services.ProcessSupervisor} sup - Supervisor for the icon server
 * @returns {bool} Returns true once the server is healthy
 * @description
 * - Warns first, then asks before spawning the process
 * - --yes skips the prompt
 */
func ensureServer(ctx context.Context, sup *services.ProcessSupervisor) bool {
	if sup.IsRunning() {
		return true
	}

	fmt.Printf("Icon server at %s is not running.\n", sup.Endpoint())
	if !flagYes {
		fmt.Print("Start it now? (y/n): ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Please start the server manually and retry")
			return false
		}
	}

	fmt.Println("Starting icon server...")
	if !sup.StartAdhoc(ctx) {
		fmt.Println("Failed to start the icon server")
		return false
	}
	fmt.Println("Icon server is up")
	return true
}

func init() {
	root.RootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&flagName, "name", "", "single icon name")
	searchCmd.Flags().StringVar(&flagNames, "names", "", "comma separated icon names")
	searchCmd.Flags().StringVar(&flagStyle, "style", "", "icon style (element-plus/ant-design/default)")
	searchCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "start the icon server without asking")

	searchCmd.Example = `  icon-keeper search --name home
  icon-keeper search --names home,user,settings
  icon-keeper search --name add --style element-plus`
}
