package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/tovald/linkdrop/internal/config"
	"github.com/tovald/linkdrop/internal/engine"
	"github.com/tovald/linkdrop/internal/logging"
	"github.com/tovald/linkdrop/internal/output"
	core "github.com/tovald/linkdrop/internal/providers"
	providerpkg "github.com/tovald/linkdrop/pkg/providers"
)

var (
	providerName string
	outputFormat string
	showProgress bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file> [file...]",
	Short: "Upload files and print their shareable URLs",
	Long: `Upload one or more files through the configured backend and print a
shareable URL for each. Supports glob patterns. Uploads run
concurrently and finish in any order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVarP(&providerName, "provider", "p", "", "backend to use for this invocation (anonhost, cloudstore)")
	uploadCmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "output format (text, json)")
	uploadCmd.Flags().BoolVar(&showProgress, "progress", true, "show upload progress")

	viper.BindPFlag("output", uploadCmd.Flags().Lookup("output"))
	viper.BindPFlag("progress", uploadCmd.Flags().Lookup("progress"))
}

// overrideFactory pins every upload to one backend, ignoring the
// persisted selection
type overrideFactory struct {
	id    core.ID
	inner *providerpkg.Factory
}

func (o overrideFactory) Create(core.ID) (core.Provider, error) {
	return o.inner.Create(o.id)
}

// expandGlobPatterns expands glob patterns in file paths and returns all matched files
func expandGlobPatterns(filePatterns []string) ([]string, error) {
	var result []string
	for _, pattern := range filePatterns {
		if strings.Contains(pattern, "*") || strings.Contains(pattern, "?") || strings.Contains(pattern, "[") {
			matches, err := filepath.Glob(pattern)
			if err != nil {
				return nil, fmt.Errorf("invalid glob pattern '%s': %w", pattern, err)
			}
			result = append(result, matches...)
		} else {
			result = append(result, pattern)
		}
	}
	return result, nil
}

// validatePaths validates that every path is an existing regular file
func validatePaths(files []string) error {
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("file does not exist: %s", file)
			}
			return fmt.Errorf("error checking file %s: %w", file, err)
		}
		if info.IsDir() {
			return fmt.Errorf("path '%s' is a directory; only files can be uploaded", file)
		}
	}
	return nil
}

func runUpload(cmd *cobra.Command, args []string) error {
	logging.Init(viper.GetBool("verbose"), os.Stderr)

	files, err := expandGlobPatterns(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files matched")
	}
	if err := validatePaths(files); err != nil {
		return err
	}

	store := config.NewStore(cfgFile)
	factory := providerpkg.NewFactory(store)

	var engineFactory engine.ProviderFactory = factory
	if providerName != "" {
		id, err := core.ParseID(providerName)
		if err != nil {
			return err
		}
		engineFactory = overrideFactory{id: id, inner: factory}
	}

	eng := engine.New(store, engineFactory, nil)

	handler, err := output.NewHandler(viper.GetString("output"))
	if err != nil {
		return err
	}
	defer handler.Close()

	// Handle signals for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	var handlerMu sync.Mutex
	var entryIDs []string

	g := new(errgroup.Group)
	for _, file := range files {
		entry := eng.SubmitPath(file)
		entryIDs = append(entryIDs, entry.ID)

		outcome, err := eng.BeginUpload(ctx, entry.ID)
		if err != nil {
			return fmt.Errorf("failed to start upload for %s: %w", file, err)
		}

		entryID := entry.ID
		g.Go(func() error {
			<-outcome

			final, ok := eng.Entry(entryID)
			if !ok {
				return nil
			}
			handlerMu.Lock()
			defer handlerMu.Unlock()
			return handler.HandleResult(final)
		})
	}

	// Progress rendering is only useful for a single file on a text
	// terminal; with several files the lines would fight over the
	// cursor
	done := make(chan struct{})
	if viper.GetBool("progress") && viper.GetString("output") == "text" && len(entryIDs) == 1 {
		go func() {
			ticker := time.NewTicker(100 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					entry, ok := eng.Entry(entryIDs[0])
					if !ok || entry.State != engine.StateUploading {
						continue
					}
					handlerMu.Lock()
					handler.HandleProgress(entry)
					handlerMu.Unlock()
				}
			}
		}()
	}

	err = g.Wait()
	close(done)
	if err != nil {
		return err
	}

	// A non-zero exit when anything failed
	for _, id := range entryIDs {
		if entry, ok := eng.Entry(id); ok && entry.State == engine.StateError {
			return fmt.Errorf("one or more uploads failed")
		}
	}
	return nil
}
