package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/stegshare-cli/internal/core/domain"
	"github.com/kamal-hamza/stegshare-cli/internal/core/services"
	"github.com/kamal-hamza/stegshare-cli/pkg/ui"
)

var watchStage bool

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Pre-check images as they appear in a folder",
	Long: `Watch a folder and run the duplicate pre-check for every image
dropped into it.

With --stage the newest image also becomes the staged upload, keeping the
caption already staged.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVarP(&watchStage, "stage", "s", false, "Stage each new image for upload")
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	ctx, stop := signal.NotifyContext(getContext(), os.Interrupt)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	fmt.Println(ui.FormatInfo("Watching: " + dir))
	fmt.Println(ui.FormatMuted("Press Ctrl+C to stop"))
	fmt.Println()

	d := newDebouncer(time.Duration(appConfig.WatchDebounceMS) * time.Millisecond)
	defer d.Stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isWatchedImage(event) {
				continue
			}
			path := event.Name
			d.Trigger(path, func() { handleDroppedImage(ctx, path) })

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			appLogger.Warn("watch", "watcher error", map[string]interface{}{"error": err.Error()})

		case <-ctx.Done():
			fmt.Println()
			fmt.Println(ui.FormatMuted("Watcher stopped"))
			return nil
		}
	}
}

func isWatchedImage(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~") {
		return false
	}
	return domain.IsImageFile(event.Name, appConfig.ImageExtensions)
}

func handleDroppedImage(ctx context.Context, path string) {
	fmt.Println(ui.FormatInfo("New image: " + filepath.Base(path)))

	if watchStage {
		caption := ""
		if draft, err := draftRepo.Load(ctx); err == nil {
			caption = draft.Caption
		}
		// Stage runs the pre-check itself
		if _, err := uploadForm.Stage(ctx, services.StageRequest{Path: path, Caption: caption}); err != nil {
			fmt.Println(ui.FormatError("Could not stage: " + err.Error()))
		}
		return
	}

	image, err := os.ReadFile(path)
	if err != nil {
		fmt.Println(ui.FormatError("Could not read: " + err.Error()))
		return
	}
	res := duplicateService.Check(ctx, services.DuplicateCheckRequest{Filename: filepath.Base(path), Image: image})
	if res.Checked && res.Err == nil && !res.Verdict.Matched {
		fmt.Println(ui.FormatSuccess("Looks unique (closest distance: " + res.Verdict.DistanceString() + ")"))
	}
}

// debouncer runs the latest action per key once events stop for delay
type debouncer struct {
	mu     sync.Mutex
	delay  time.Duration
	timers map[string]*time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay, timers: make(map[string]*time.Timer)}
}

func (d *debouncer) Trigger(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[key]; ok {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.timers[key] == t {
			delete(d.timers, key)
		}
		d.mu.Unlock()
		fn()
	})
	d.timers[key] = t
}

func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
}
