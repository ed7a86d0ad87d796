package main

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/sethgrid/deskpet/internal/app"
	"github.com/sethgrid/deskpet/internal/art"
	"github.com/sethgrid/deskpet/internal/clock"
	"github.com/sethgrid/deskpet/internal/health"
	"github.com/sethgrid/deskpet/internal/pet"
	"github.com/sethgrid/deskpet/internal/resource"
	"github.com/sethgrid/deskpet/internal/trigger"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the animations the pet knows",
	RunE: func(cmd *cobra.Command, args []string) error {
		preview, _ := cmd.Flags().GetString("preview")
		width, _ := cmd.Flags().GetInt("width")

		s, err := loadSession()
		if err != nil {
			return err
		}

		if preview != "" {
			d, ok := s.catalog.Lookup(pet.AnimationID(preview))
			if !ok {
				return fmt.Errorf("unknown animation %q", preview)
			}
			cache := resource.New(os.DirFS(s.assetDir), nil)
			frames := cache.Frames(d.Folder, 1, pet.Size{})
			if len(frames) == 0 {
				fmt.Println(art.Placeholder(0))
				return fmt.Errorf("no frames for %s in %s", d.ID, path.Join(s.assetDir, d.Folder))
			}
			b := frames[0].Bounds()
			// cells are twice as tall as they are wide
			rows := max(1, width*b.Dy()/b.Dx()/2)
			for _, line := range art.Render(frames[0], width, rows) {
				fmt.Println(line)
			}
			return nil
		}

		fmt.Printf("%-14s %-18s %6s %8s %6s %-12s %-5s %5s %s\n",
			"ID", "FOLDER", "FRAMES", "INTERVAL", "LOOPS", "PRIORITY", "INTR", "SCALE", "SOUND")
		for _, id := range s.catalog.IDs() {
			d, _ := s.catalog.Lookup(id)
			loops := fmt.Sprint(d.Loops)
			if d.Forever() {
				loops = "forever"
			}
			fmt.Printf("%-14s %-18s %6d %8s %6s %-12s %-5t %5.2g %s\n",
				d.ID, d.Folder, d.Frames, d.Interval, loops, d.Priority, d.Interruptible, d.SizeScale, d.Sound)
		}
		return nil
	},
}

func init() {
	catalogCmd.Flags().StringP("preview", "p", "", "Render the first frame of an animation")
	catalogCmd.Flags().IntP("width", "w", 40, "Preview width in characters")
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the configuration, the asset folders and the host samplers",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession()
		if err != nil {
			return err
		}
		fmt.Printf("config:  %s\n", s.configPath)
		fmt.Printf("assets:  %s\n", s.assetDir)

		if _, err := os.Stat(s.assetDir); err != nil {
			return fmt.Errorf("asset directory not found: %s", s.assetDir)
		}

		problems := checkCatalog(s.catalog, resource.New(os.DirFS(s.assetDir), nil))

		monitor := health.NewMonitor(health.CPUSampler{}, health.GPUSampler{Timeout: time.Second}, clock.Real{}, 0, nil)
		r := monitor.Read()
		fmt.Printf("host:    %s (load %.1f%%, %s)\n", trigger.StatusLine(time.Now(), r), r.Load(health.ComputationMode(s.config.LoadMode)), s.config.LoadMode)

		if problems > 0 {
			return fmt.Errorf("%d of %d animations have problems", problems, len(s.catalog.IDs()))
		}
		fmt.Println("all animations ok")
		return nil
	},
}

// checkCatalog prints one line per animation and returns how many have
// missing frames, sounds or hooks.
func checkCatalog(cat *pet.Catalog, cache *resource.Cache) int {
	hooks := app.DefaultHooks(hclog.NewNullLogger())
	problems := 0
	for _, id := range cat.IDs() {
		d, _ := cat.Lookup(id)

		var issues []string
		if got := len(cache.Frames(d.Folder, d.Frames, pet.Size{})); got < d.Frames {
			issues = append(issues, fmt.Sprintf("%d/%d frames", got, d.Frames))
		}
		if d.HasAudio() && cache.Audio(d.Folder, d.Sound) == nil {
			issues = append(issues, "sound "+d.Sound+" missing")
		}
		if d.OnComplete != "" {
			if _, ok := hooks[d.OnComplete]; !ok {
				issues = append(issues, "unknown hook "+d.OnComplete)
			}
		}

		if len(issues) == 0 {
			fmt.Printf("  ok       %s\n", id)
			continue
		}
		problems++
		fmt.Printf("  problem  %s: %v\n", id, issues)
	}
	return problems
}
