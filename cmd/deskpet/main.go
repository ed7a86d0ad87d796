package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/sethgrid/deskpet/internal/discovery"
	"github.com/sethgrid/deskpet/internal/logging"
	"github.com/sethgrid/deskpet/internal/pet"
	"github.com/sethgrid/deskpet/internal/storage"
	"github.com/spf13/cobra"
)

var (
	configPath string
)

const Version = "v0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "deskpet",
		Short: "deskpet - a little black cat that lives on your desktop",
		Run: func(cmd *cobra.Command, args []string) {
			if version, _ := cmd.Flags().GetBool("version"); version {
				fmt.Println(Version)
				return
			}
			cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to pet.toml")
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(checkCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Create a pet configuration in .deskpet/",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		global, _ := cmd.Flags().GetBool("global")

		var baseDir string
		if global {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to get home directory: %w", err)
			}
			baseDir = home
		} else {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current directory: %w", err)
			}
			baseDir = cwd
		}

		var name string
		if len(args) > 0 {
			name = args[0]
		}

		path, err := storage.InitConfig(name, baseDir)
		if err != nil {
			return err
		}

		config, err := storage.LoadConfig(path)
		if err != nil {
			return err
		}
		fmt.Printf("%s is ready: %s\n", config.Name, path)
		fmt.Printf("Put the frame folders under %s\n", storage.ResolvePath(path, config.AssetDir))
		return nil
	},
}

func init() {
	initCmd.Flags().Bool("global", false, "Create the pet in your home directory")
}

// session is everything a command needs from the configuration on disk.
type session struct {
	configPath string
	config     pet.PetConfig
	catalog    *pet.Catalog
	assetDir   string
	jsonLog    bool
}

// loadSession finds pet.toml, applies environment overrides and the asset
// manifest.
func loadSession() (*session, error) {
	cwd, _ := os.Getwd()
	path, err := discovery.Locate(configPath, cwd)
	if err != nil {
		return nil, err
	}

	config, err := storage.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load pet: %w", err)
	}

	overrides, err := storage.ParseEnv()
	if err != nil {
		return nil, err
	}
	overrides.Apply(&config)

	catalog := pet.DefaultCatalog()
	if config.Manifest != "" {
		manifestPath := storage.ResolvePath(path, config.Manifest)
		if _, statErr := os.Stat(manifestPath); statErr == nil {
			m, err := storage.LoadManifest(manifestPath)
			if err != nil {
				return nil, err
			}
			catalog, err = m.Apply(catalog)
			if err != nil {
				return nil, err
			}
		}
	}

	return &session{
		configPath: path,
		config:     config,
		catalog:    catalog,
		assetDir:   storage.ResolvePath(path, config.AssetDir),
		jsonLog:    overrides.JSONLog,
	}, nil
}

// logger writes to stderr, or to a file beside pet.toml when the terminal
// is in use by the pet itself.
func (s *session) logger(toFile bool) (hclog.Logger, func(), error) {
	if !toFile {
		return logging.New("deskpet", s.config.LogLevel, s.jsonLog, os.Stderr), func() {}, nil
	}
	logPath := filepath.Join(filepath.Dir(s.configPath), "deskpet.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return logging.New("deskpet", s.config.LogLevel, s.jsonLog, f), func() { f.Close() }, nil
}
