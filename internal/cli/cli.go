// Package cli defines the promptdock command tree.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/promptdock/promptdock/internal/config"
	"github.com/promptdock/promptdock/internal/errors"
	"github.com/promptdock/promptdock/internal/generator"
	"github.com/promptdock/promptdock/internal/service"
	"github.com/promptdock/promptdock/internal/ui"
)

var (
	cfgFile string
	svc     *service.Service
)

var rootCmd = &cobra.Command{
	Use:   "promptdock",
	Short: "Organize, favorite and generate AI prompts from the terminal",
	Long: `Promptdock keeps a directory of markdown prompts with first-level
folders, pins favorite files and code snippets, and browses project
doc/ trees. Run without arguments to open the interactive browser.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		svc, err = service.NewService(mgr.Get())
		return err
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		svc.StartWatcher()
		defer svc.Close()
		return ui.Run(svc)
	},
}

// Execute runs the command tree and maps failures to user-facing messages.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", errors.GetAppError(err).UserMessage())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ~/.promptdock/config.yaml)",
	)

	rootCmd.AddCommand(
		initCmd,
		listCmd,
		foldersCmd,
		showCmd,
		createCmd,
		deleteCmd,
		mkdirCmd,
		rmdirCmd,
		searchCmd,
		favCmd,
		generateCmd,
	)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the prompt library and seed starter prompts",
	RunE: func(cmd *cobra.Command, args []string) error {
		// NewService already ran EnsureReady; report where the library lives.
		fmt.Printf("Prompt library ready at %s\n", svc.LibraryDir())
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all prompts",
	RunE: func(cmd *cobra.Command, args []string) error {
		prompts := svc.ListPrompts()
		if len(prompts) == 0 {
			fmt.Println("No prompts found.")
			return nil
		}
		for _, p := range prompts {
			fmt.Printf("%s\t%s\n", p.Title, p.FilePath)
		}
		return nil
	},
}

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "List first-level folders",
	RunE: func(cmd *cobra.Command, args []string) error {
		folders := svc.ListFolders()
		if len(folders) == 0 {
			fmt.Println("No folders found.")
			return nil
		}
		for _, f := range folders {
			fmt.Printf("%s\t%s\n", f.Name, f.Path)
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <title>",
	Short: "Print a prompt's content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt, err := svc.FindPrompt(args[0])
		if err != nil {
			return err
		}
		fmt.Print(prompt.Content)
		if !strings.HasSuffix(prompt.Content, "\n") {
			fmt.Println()
		}
		return nil
	},
}

var (
	createContent string
	createFile    string
	createFolder  string
)

var createCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a new prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content := createContent
		if createFile != "" {
			data, err := os.ReadFile(createFile)
			if err != nil {
				return errors.StorageError("read content file", err)
			}
			content = string(data)
		}

		prompt, err := svc.CreatePrompt(args[0], content, createFolder)
		if err != nil {
			return err
		}
		fmt.Printf("Created %s\n", prompt.FilePath)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <title>",
	Short: "Delete a prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt, err := svc.FindPrompt(args[0])
		if err != nil {
			return err
		}
		removed, err := svc.DeletePrompt(prompt.FilePath)
		if err != nil {
			return err
		}
		if removed {
			fmt.Printf("Deleted %s\n", prompt.Title)
		}
		return nil
	},
}

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <name>",
	Short: "Create a first-level folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.CreateFolder(args[0]); err != nil {
			return err
		}
		fmt.Printf("Created folder %s\n", args[0])
		return nil
	},
}

var rmdirCmd = &cobra.Command{
	Use:   "rmdir <name>",
	Short: "Delete a folder and everything in it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, f := range svc.ListFolders() {
			if f.Name == args[0] {
				if err := svc.DeleteFolder(f.Path); err != nil {
					return err
				}
				fmt.Printf("Deleted folder %s\n", f.Name)
				return nil
			}
		}
		return errors.NotFoundError(fmt.Sprintf("folder %q", args[0]))
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Fuzzy-search prompts by title and content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results := svc.SearchPrompts(args[0])
		if len(results) == 0 {
			fmt.Println("No matches.")
			return nil
		}
		for _, p := range results {
			fmt.Printf("%s\t%s\n", p.Title, p.FilePath)
		}
		return nil
	},
}

var favCmd = &cobra.Command{
	Use:   "fav",
	Short: "Manage favorite files and code snippets",
}

var favListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorites",
	RunE: func(cmd *cobra.Command, args []string) error {
		favs, err := svc.Favorites()
		if err != nil {
			return err
		}
		if len(favs) == 0 {
			fmt.Println("No favorites.")
			return nil
		}
		for _, f := range favs {
			fmt.Printf("%s\t%s\t%s\t%s\n", f.ID, f.Type, f.Label, f.Path)
		}
		return nil
	},
}

var favLabel string

var favAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Pin a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		label := favLabel
		if label == "" {
			label = args[0]
		}
		item, err := svc.AddFileFavorite(args[0], label)
		if err != nil {
			return err
		}
		fmt.Printf("Pinned %s\n", item.Path)
		return nil
	},
}

var (
	favLine    int
	favSnippet string
)

var favAddCodeCmd = &cobra.Command{
	Use:   "add-code <path>",
	Short: "Pin a code snippet from a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		label := favLabel
		if label == "" {
			label = args[0]
		}
		item, err := svc.AddCodeFavorite(args[0], label, favLine, favSnippet)
		if err != nil {
			return err
		}
		fmt.Printf("Pinned %s (%s)\n", item.Path, item.Description)
		return nil
	},
}

var favRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a favorite",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.RemoveFavorite(args[0]); err != nil {
			return err
		}
		fmt.Println("Removed.")
		return nil
	},
}

var (
	genPurpose  string
	genRules    string
	genLanguage string
	genProject  string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Ask the generation service for a new prompt",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(genPurpose) == "" {
			return errors.ValidationError("purpose is required")
		}
		prompt, err := svc.GeneratePrompt(cmd.Context(), generator.Request{
			Purpose:     genPurpose,
			Rules:       genRules,
			Language:    genLanguage,
			ProjectPath: genProject,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Generated %q at %s\n", prompt.Title, prompt.Path)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVarP(&createContent, "content", "c", "", "prompt content")
	createCmd.Flags().StringVarP(&createFile, "file", "f", "", "read content from file")
	createCmd.Flags().StringVar(&createFolder, "folder", "", "folder path to create the prompt in")

	favAddCmd.Flags().StringVar(&favLabel, "label", "", "display label")
	favAddCodeCmd.Flags().StringVar(&favLabel, "label", "", "display label")
	favAddCodeCmd.Flags().IntVar(&favLine, "line", 0, "0-based line number of the snippet")
	favAddCodeCmd.Flags().StringVar(&favSnippet, "snippet", "", "the code snippet text")
	favCmd.AddCommand(favListCmd, favAddCmd, favAddCodeCmd, favRmCmd)

	generateCmd.Flags().StringVar(&genPurpose, "purpose", "", "what the prompt is for")
	generateCmd.Flags().StringVar(&genRules, "rules", "", "constraints the prompt must follow")
	generateCmd.Flags().StringVar(&genLanguage, "language", "en", "output language")
	generateCmd.Flags().StringVar(&genProject, "project", "", "project path for context")
}
