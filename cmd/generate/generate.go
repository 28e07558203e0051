package generate

import (
	"context"
	"fmt"
	"os"

	"icon-keeper/cmd/root"
	"icon-keeper/internal/config"
	"icon-keeper/internal/models"
	"icon-keeper/services"

	"github.com/spf13/cobra"
)

var (
	flagDescription string
	flagStyle       string
	flagModel       string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an icon from a description",
	Long:  `Ask the icon server to generate an icon from a natural language description, optionally with a style and AI model`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := generateIcon(context.Background()); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

/**
 * Generate an icon via the icon server
 * @param {context.Context} ctx - Context for request cancellation
 * @returns {error} Returns error if generation fails, nil on success
 * @description
 * - Generation is not idempotent; a failed call is reported, never retried
 * - The health gate inside the client starts the server if needed
 */
func generateIcon(ctx context.Context) error {
	req := models.GenerateRequest{
		Description: flagDescription,
		Style:       models.IconStyle(flagStyle),
		Model:       models.GenerateModel(flagModel),
	}
	if err := req.Validate(); err != nil {
		return err
	}

	cfg := &config.Config
	sup := services.NewProcessSupervisor(cfg)
	client := services.NewApiClient(cfg, sup)
	defer client.Close()

	icon, err := client.GenerateIcon(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("Generated icon: %s (%s)\n", icon.Name, icon.Source)
	return nil
}

func init() {
	root.RootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&flagDescription, "description", "", "icon description (required)")
	generateCmd.Flags().StringVar(&flagStyle, "style", "", "icon style (element-plus/ant-design/default)")
	generateCmd.Flags().StringVar(&flagModel, "model", "", "AI model (openai/tongyi/wenxin/zhipu/kimi/doubao)")
	generateCmd.MarkFlagRequired("description")

	generateCmd.Example = `  icon-keeper generate --description "a red delete icon" --style element-plus`
}
