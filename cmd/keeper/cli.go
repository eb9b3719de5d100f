package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/keeper/internal/config"
	"github.com/hpungsan/keeper/internal/errors"
	"github.com/hpungsan/keeper/internal/ops"
	"github.com/hpungsan/keeper/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "keeper",
		Usage:   "Personal contact and note keeper",
		Version: Version,
		Commands: []*cli.Command{
			contactCmd(db),
			noteCmd(db),
			birthdaysCmd(db, cfg),
			exportCmd(db, cfg),
			importCmd(db, cfg),
			webCmd(db, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// contactAddressingFlags are shared by commands that locate one contact.
func contactAddressingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "id", Usage: "Contact ID"},
		&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Contact name (case-insensitive exact match)"},
	}
}

// noteAddressingFlags are shared by commands that locate one note.
func noteAddressingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "id", Usage: "Note ID"},
		&cli.StringFlag{Name: "text", Aliases: []string{"t"}, Usage: "Substring of the note text (must match exactly one note)"},
	}
}

// contactCmd creates the contact command group.
func contactCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "contact",
		Usage: "Manage contacts",
		Subcommands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add a new contact",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Required: true, Usage: "Contact name"},
					&cli.StringFlag{Name: "address", Aliases: []string{"a"}, Usage: "Postal address"},
					&cli.StringFlag{Name: "phone", Aliases: []string{"p"}, Usage: "Phone number"},
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Email address"},
					&cli.StringFlag{Name: "birthday", Aliases: []string{"b"}, Usage: "Birth date in YYYY-MM-DD form"},
				},
				Action: func(c *cli.Context) error {
					output, err := ops.ContactAdd(c.Context, db, ops.ContactAddInput{
						Name:     c.String("name"),
						Address:  c.String("address"),
						Phone:    c.String("phone"),
						Email:    c.String("email"),
						Birthday: c.String("birthday"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "get",
				Usage:     "Show one contact by ID or exact name",
				ArgsUsage: "[id]",
				Flags:     contactAddressingFlags(),
				Action: func(c *cli.Context) error {
					input := ops.ContactGetInput{
						ID:   c.String("id"),
						Name: c.String("name"),
					}
					if c.NArg() > 0 {
						input.ID = c.Args().First()
					}

					output, err := ops.ContactGet(c.Context, db, input)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "search",
				Usage:     "Search contacts by substring of name, address, phone, or email",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum items to return"},
					&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
				},
				Action: func(c *cli.Context) error {
					output, err := ops.ContactSearch(c.Context, db, ops.ContactSearchInput{
						Query:  strings.Join(c.Args().Slice(), " "),
						Limit:  c.Int("limit"),
						Offset: c.Int("offset"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "update",
				Aliases:   []string{"edit"},
				Usage:     "Update fields of one contact",
				ArgsUsage: "[id]",
				Flags: append(contactAddressingFlags(),
					&cli.StringFlag{Name: "new-name", Usage: "New contact name"},
					&cli.StringFlag{Name: "address", Aliases: []string{"a"}, Usage: "New postal address"},
					&cli.StringFlag{Name: "phone", Aliases: []string{"p"}, Usage: "New phone number"},
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "New email address"},
					&cli.StringFlag{Name: "birthday", Aliases: []string{"b"}, Usage: "New birth date, or empty string to clear"},
				),
				Action: func(c *cli.Context) error {
					input := ops.ContactUpdateInput{
						ID:   c.String("id"),
						Name: c.String("name"),
					}
					if c.NArg() > 0 {
						input.ID = c.Args().First()
					}

					// IsSet distinguishes "not given" from "given empty":
					// an empty --birthday clears the stored date.
					if c.IsSet("new-name") {
						v := c.String("new-name")
						input.NewName = &v
					}
					if c.IsSet("address") {
						v := c.String("address")
						input.Address = &v
					}
					if c.IsSet("phone") {
						v := c.String("phone")
						input.Phone = &v
					}
					if c.IsSet("email") {
						v := c.String("email")
						input.Email = &v
					}
					if c.IsSet("birthday") {
						v := c.String("birthday")
						input.Birthday = &v
					}

					output, err := ops.ContactUpdate(c.Context, db, input)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete one contact by ID or exact name",
				ArgsUsage: "[id]",
				Flags:     contactAddressingFlags(),
				Action: func(c *cli.Context) error {
					input := ops.ContactDeleteInput{
						ID:   c.String("id"),
						Name: c.String("name"),
					}
					if c.NArg() > 0 {
						input.ID = c.Args().First()
					}

					output, err := ops.ContactDelete(c.Context, db, input)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "list",
				Usage: "List contacts in insertion order",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum items to return"},
					&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
				},
				Action: func(c *cli.Context) error {
					output, err := ops.ContactList(c.Context, db, ops.ContactListInput{
						Limit:  c.Int("limit"),
						Offset: c.Int("offset"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
		},
	}
}

// noteCmd creates the note command group.
func noteCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "note",
		Usage: "Manage notes",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a new note",
				ArgsUsage: "<text>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "tags", Usage: "Comma-separated tags"},
				},
				Action: func(c *cli.Context) error {
					output, err := ops.NoteAdd(c.Context, db, ops.NoteAddInput{
						Text: strings.Join(c.Args().Slice(), " "),
						Tags: parseTags(c.String("tags")),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "get",
				Usage:     "Show one note by ID or text substring",
				ArgsUsage: "[id]",
				Flags:     noteAddressingFlags(),
				Action: func(c *cli.Context) error {
					input := ops.NoteGetInput{
						ID:   c.String("id"),
						Text: c.String("text"),
					}
					if c.NArg() > 0 {
						input.ID = c.Args().First()
					}

					output, err := ops.NoteGet(c.Context, db, input)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "search",
				Usage:     "Search notes by text, tags, or both",
				ArgsUsage: "[query]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "text", Usage: "Search mode: text|tags|any"},
					&cli.StringFlag{Name: "tags", Usage: "Comma-separated tags (tags mode)"},
					&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum items to return"},
					&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
				},
				Action: func(c *cli.Context) error {
					output, err := ops.NoteSearch(c.Context, db, ops.NoteSearchInput{
						Mode:   ops.NoteSearchMode(c.String("mode")),
						Query:  strings.Join(c.Args().Slice(), " "),
						Tags:   parseTags(c.String("tags")),
						Limit:  c.Int("limit"),
						Offset: c.Int("offset"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "update",
				Aliases:   []string{"edit"},
				Usage:     "Update one note",
				ArgsUsage: "[id]",
				Flags: append(noteAddressingFlags(),
					&cli.StringFlag{Name: "new-text", Usage: "New note content"},
					&cli.StringFlag{Name: "tags", Usage: "Replacement comma-separated tags (empty clears all tags)"},
				),
				Action: func(c *cli.Context) error {
					input := ops.NoteUpdateInput{
						ID:   c.String("id"),
						Text: c.String("text"),
					}
					if c.NArg() > 0 {
						input.ID = c.Args().First()
					}

					if c.IsSet("new-text") {
						v := c.String("new-text")
						input.NewText = &v
					}
					if c.IsSet("tags") {
						tags := parseTags(c.String("tags"))
						input.Tags = &tags
					}

					output, err := ops.NoteUpdate(c.Context, db, input)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete one note by ID or text substring",
				ArgsUsage: "[id]",
				Flags:     noteAddressingFlags(),
				Action: func(c *cli.Context) error {
					input := ops.NoteDeleteInput{
						ID:   c.String("id"),
						Text: c.String("text"),
					}
					if c.NArg() > 0 {
						input.ID = c.Args().First()
					}

					output, err := ops.NoteDelete(c.Context, db, input)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "list",
				Usage: "List notes in insertion order",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum items to return"},
					&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
				},
				Action: func(c *cli.Context) error {
					output, err := ops.NoteList(c.Context, db, ops.NoteListInput{
						Limit:  c.Int("limit"),
						Offset: c.Int("offset"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
		},
	}
}

// birthdaysCmd creates the birthdays command.
func birthdaysCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "birthdays",
		Usage: "Show upcoming birthdays",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "days", Aliases: []string{"d"}, Usage: "Window size in days (default from config)"},
			&cli.BoolFlag{Name: "all", Aliases: []string{"a"}, Usage: "Show every contact with a birthday instead"},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("all") {
				output, err := ops.BirthdayAll(c.Context, db, ops.BirthdayAllInput{})
				if err != nil {
					return outputError(err)
				}
				return outputJSON(output)
			}

			days := cfg.UpcomingDaysDefault
			if c.IsSet("days") {
				days = c.Int("days")
			}

			output, err := ops.BirthdayUpcoming(c.Context, db, ops.BirthdayUpcomingInput{Days: days})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export all contacts and notes to a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: ~/.keeper/exports/keeper-<timestamp>.jsonl)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Export(c.Context, db, cfg, ops.ExportInput{
				Path: c.String("path"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// importCmd creates the import command.
func importCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import contacts and notes from a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Import file path"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "skip", Usage: "Collision mode: skip|replace"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Import(c.Context, db, cfg, ops.ImportInput{
				Path: c.String("path"),
				Mode: ops.ImportMode(c.String("mode")),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// webCmd creates the web command.
func webCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Serve the local web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Value: 8275, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(db, cfg, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if kErr, ok := err.(*errors.KeeperError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", kErr.Code, kErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// parseTags splits a comma-separated string into a slice of tags.
func parseTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
