package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"notry/internal/config"
	"notry/internal/logs"
	"notry/internal/store"
	"notry/internal/tui"
)

func main() {
	// Parse CLI flags
	dbFlag := flag.String("db", "", "Database file location")
	seedFlag := flag.Int("seed", 0, "Populate N synthetic notes when the store is empty")
	resetFlag := flag.Bool("reset", false, "Delete the existing database file before startup")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(config.CLIFlags{DBPath: *dbFlag})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Ensure config file exists
	if err := config.EnsureConfigFile(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create config file: %v\n", err)
	}

	if *resetFlag {
		if err := os.Remove(cfg.DBPath); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Failed to delete %s: %v\n", cfg.DBPath, err)
			os.Exit(2)
		}
	}

	// Log next to the database; the TUI owns the terminal.
	if err := logs.Initialize(filepath.Dir(cfg.DBPath)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not initialize logger: %v\n", err)
	}
	defer logs.Close()

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if *seedFlag > 0 {
		count, err := st.Count()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to count notes: %v\n", err)
			os.Exit(1)
		}
		if count == 0 {
			if err := st.Seed(*seedFlag); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to seed notes: %v\n", err)
				os.Exit(1)
			}
			logs.Logger.Printf("Seeded %d notes", *seedFlag)
		}
	}

	logs.Logger.Println("Starting app in TUI mode")
	appModel := tui.NewAppModel(cfg, st)
	p := tea.NewProgram(appModel, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		os.Exit(1)
	}
}
