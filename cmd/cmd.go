// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles initial configuration and database setup.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize config file, database and migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// authCommand handles the OAuth session lifecycle.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the YouTube session",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Sign in via the browser consent flow",
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Revoke the stored credential and sign out",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show whether a usable session exists",
				Action: r.AuthStatus,
			},
		},
	}
}

// playlistsCommand handles playlist listing and monitor flags.
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "Browse playlists and choose which to monitor",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List playlists from the vault (or the remote with --remote)",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "remote",
						Usage: "Fetch the listing from YouTube instead of the vault",
					},
					&cli.BoolFlag{
						Name:  "monitored",
						Usage: "Only show monitored playlists",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.PlaylistsList,
			},
			{
				Name:  "show",
				Usage: "Show a vaulted playlist with its items",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.PlaylistsShow,
			},
			{
				Name:  "monitor",
				Usage: "Start monitoring a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.PlaylistsMonitor,
			},
			{
				Name:  "unmonitor",
				Usage: "Stop monitoring a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.PlaylistsUnmonitor,
			},
		},
	}
}

// syncCommand runs sync cycles on demand.
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Sync monitored playlists and preserve unavailable items",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "id",
				Usage: "Sync a single playlist instead of all monitored ones",
			},
		},
		Action: r.SyncRun,
	}
}

// watchCommand runs the recurring sync schedule in the foreground.
func watchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "watch",
		Usage:  "Run the recurring sync schedule until interrupted",
		Action: r.Watch,
	}
}

// serveCommand exposes the message contract over HTTP.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Serve the message API on the configured host and port",
		Action: r.Serve,
	}
}

// settingsCommand reads and writes persisted settings.
func settingsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Read and change persisted settings",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Print the current settings",
				Action: r.SettingsShow,
			},
			{
				Name:  "frequency",
				Usage: "Set the sync frequency (daily or weekly)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "value"},
				},
				Action: r.SettingsFrequency,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive playlist management.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive playlist browser",
		Action:  r.TUI,
	}
}
