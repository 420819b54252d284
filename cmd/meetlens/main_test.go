package main

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/meetlens/meetlens/index"
)

func TestAskCommandFlags(t *testing.T) {
	cmd := &cli.Command{
		Name:   "ask",
		Action: askCommand,
		Flags: []cli.Flag{
			&cli.Uint64Flag{
				Name:    "doc",
				Aliases: []string{"m"},
			},
			&cli.StringFlag{
				Name:    "project",
				Aliases: []string{"p"},
			},
			&cli.IntFlag{
				Name:  "top-k",
				Value: index.DefaultTopK,
			},
			&cli.BoolFlag{
				Name: "no-stream",
			},
		},
	}

	t.Run("top-k defaults to the retrieval default", func(t *testing.T) {
		var topKFlag *cli.IntFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.IntFlag); ok && f.Name == "top-k" {
				topKFlag = f
				break
			}
		}
		require.NotNil(t, topKFlag)
		assert.Equal(t, index.DefaultTopK, topKFlag.Value)
	})

	t.Run("doc flag has alias -m", func(t *testing.T) {
		var docFlag *cli.Uint64Flag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.Uint64Flag); ok && f.Name == "doc" {
				docFlag = f
				break
			}
		}
		require.NotNil(t, docFlag)
		assert.Contains(t, docFlag.Aliases, "m")
	})
}

func TestReindexCommandValidation(t *testing.T) {
	app := &cli.App{
		Name: "meetlens",
		Commands: []*cli.Command{
			{
				Name:   "reindex",
				Action: reindexCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "chunk-size",
						Value: index.DefaultChunkSize,
					},
					&cli.IntFlag{
						Name:  "chunk-overlap",
						Value: index.DefaultChunkOverlap,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Value: 10,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Value: 3,
					},
				},
			},
		},
	}

	t.Run("chunk-size has default value", func(t *testing.T) {
		cmd := app.Commands[0]
		var sizeFlag *cli.IntFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.IntFlag); ok && f.Name == "chunk-size" {
				sizeFlag = f
				break
			}
		}
		require.NotNil(t, sizeFlag)
		assert.Equal(t, index.DefaultChunkSize, sizeFlag.Value)
	})

	t.Run("max-retries has default value of 3", func(t *testing.T) {
		cmd := app.Commands[0]
		var retriesFlag *cli.IntFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.IntFlag); ok && f.Name == "max-retries" {
				retriesFlag = f
				break
			}
		}
		require.NotNil(t, retriesFlag)
		assert.Equal(t, 3, retriesFlag.Value)
	})
}

func TestParseDocumentID(t *testing.T) {
	run := func(args ...string) (err error) {
		app := &cli.App{
			Name: "meetlens",
			Commands: []*cli.Command{
				{
					Name: "show",
					Action: func(c *cli.Context) error {
						_, err := parseDocumentID(c)
						return err
					},
				},
			},
		}
		return app.Run(append([]string{"meetlens", "show"}, args...))
	}

	t.Run("valid numeric ID", func(t *testing.T) {
		assert.NoError(t, run("42"))
	})

	t.Run("missing argument fails", func(t *testing.T) {
		err := run()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exactly one")
	})

	t.Run("non-numeric ID fails", func(t *testing.T) {
		err := run("banana")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid meeting ID")
	})

	t.Run("zero ID fails", func(t *testing.T) {
		err := run("0")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid meeting ID")
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly10!", truncate("exactly10!", 10))
	assert.Equal(t, "toolongfo…", truncate("toolongforthis", 10))
}

func TestSetupLogger(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected slog.Level
		}{
			{"debug", slog.LevelDebug},
			{"info", slog.LevelInfo},
			{"warn", slog.LevelWarn},
			{"error", slog.LevelError},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "log-level",
							Value: tc.input,
						},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						return nil
					},
				}

				err := app.Run([]string{"test", "--log-level", tc.input})
				require.NoError(t, err)
			})
		}
	})

	t.Run("case insensitive log levels", func(t *testing.T) {
		for _, tc := range []string{"DEBUG", "Info", "WaRn", "ERROR"} {
			t.Run(tc, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "log-level",
							Value: "info",
						},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						return nil
					},
				}

				err := app.Run([]string{"test", "--log-level", tc})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		app := &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "log-level",
					Value: "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				return nil
			},
		}

		err := app.Run([]string{"test", "--log-level", "invalid"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("log-level flag has alias -l", func(t *testing.T) {
		app := &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "log-level",
					Aliases: []string{"l"},
					Value:   "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				assert.Equal(t, "debug", c.String("log-level"))
				return nil
			},
		}

		err := app.Run([]string{"test", "-l", "debug"})
		require.NoError(t, err)
	})
}

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}
