package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/meshiest/heightmap2brick/internal/brick"
	"github.com/meshiest/heightmap2brick/internal/brsave"
	"github.com/meshiest/heightmap2brick/internal/progress"
	"github.com/meshiest/heightmap2brick/internal/source"
)

// Set via -ldflags at build time.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	var (
		heightmapFlag string
		colormapFlag  string
		outputPath    string
		size          int
		scale         int
		cull          bool
		tileAsset     bool
		microAsset    bool
		studAsset     bool
		snap          bool
		linear        bool
		imgMode       bool
		nocollide     bool
		glow          bool
		quadtree      bool
		ownerID       string
		ownerName     string
		verbose       bool
		showVersion   bool
		cpuProfile    string
		memProfile    string
	)

	flag.StringVar(&heightmapFlag, "heightmap", "", "Heightmap image path(s), comma-separated for stacked precision")
	flag.StringVar(&colormapFlag, "c", "", "Colormap image path")
	flag.StringVar(&colormapFlag, "colormap", "", "Colormap image path")
	flag.StringVar(&outputPath, "o", "", "Output .brk archive path")
	flag.StringVar(&outputPath, "output", "", "Output .brk archive path")
	flag.IntVar(&size, "s", 1, "Brick stud size / tile stride multiplier")
	flag.IntVar(&size, "size", 1, "Brick stud size / tile stride multiplier")
	flag.IntVar(&scale, "v", 1, "Vertical (height) scale multiplier")
	flag.IntVar(&scale, "vertical", 1, "Vertical (height) scale multiplier")
	flag.BoolVar(&cull, "cull", false, "Drop tiles with zero height or zero alpha")
	flag.BoolVar(&tileAsset, "tile", false, "Emit tile-sized procedural bricks")
	flag.BoolVar(&microAsset, "micro", false, "Emit micro-sized procedural bricks")
	flag.BoolVar(&studAsset, "stud", false, "Emit stud-sized procedural bricks")
	flag.BoolVar(&snap, "snap", false, "Snap Z extents to multiples of 4")
	flag.BoolVar(&linear, "lrgb", false, "Convert colormap from sRGB to linear RGB")
	flag.BoolVar(&imgMode, "i", false, "Image-only mode: flat heightmap, colormap shape only")
	flag.BoolVar(&imgMode, "img", false, "Image-only mode: flat heightmap, colormap shape only")
	flag.BoolVar(&nocollide, "nocollide", false, "Disable collision on emitted bricks")
	flag.BoolVar(&glow, "glow", false, "Tag emitted bricks with the glow material")
	flag.BoolVar(&quadtree, "quadtree", true, "Enable the quad-merge reduction pass before line merging")
	flag.StringVar(&ownerID, "owner-id", "", "Owner id stored in archive metadata")
	flag.StringVar(&ownerName, "owner-name", "", "Owner name stored in archive metadata")
	flag.BoolVar(&verbose, "verbose", false, "Verbose progress output")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.StringVar(&cpuProfile, "cpuprofile", "", "Write CPU profile to file")
	flag.StringVar(&memProfile, "memprofile", "", "Write memory profile to file")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: heightmap2brick -heightmap <img[,img...]> -c <colormap.png> -o <output.brk> [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Reduce a heightmap + colormap pair into a brick list archive.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("heightmap2brick %s (commit %s, built %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	if cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			log.Fatalf("Creating CPU profile: %v", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatalf("Starting CPU profile: %v", err)
		}
		defer pprof.StopCPUProfile()
	}
	if memProfile != "" {
		defer func() {
			f, err := os.Create(memProfile)
			if err != nil {
				log.Fatalf("Creating memory profile: %v", err)
			}
			defer f.Close()
			runtime.GC()
			if err := pprof.WriteHeapProfile(f); err != nil {
				log.Fatalf("Writing memory profile: %v", err)
			}
		}()
	}

	if outputPath == "" || !strings.HasSuffix(outputPath, ".brk") {
		log.Fatal("Output file must be given with -o/-output and have a .brk extension")
	}
	if colormapFlag == "" {
		log.Fatal("A colormap image is required (-c/-colormap)")
	}
	if heightmapFlag == "" && !imgMode {
		log.Fatal("A heightmap image is required (-heightmap) unless -img is set")
	}

	// Size is in studs, so the raw -s/-size value is multiplied by 5; micro
	// assets divide back down, so each pixel is -s/-size micro units (a
	// fifth of a stud each) wide.
	opts := brick.GenOptions{
		TileStride: uint32(size) * 5,
		Scale:      uint32(scale),
		Cull:       cull,
		Snap:       snap,
		Stud:       studAsset,
		Micro:      microAsset,
		Img:        imgMode,
		Quadtree:   quadtree,
		Nocollide:  nocollide,
		Glow:       glow,
	}
	switch {
	case tileAsset:
		opts.Asset = brick.AssetTile
	case microAsset:
		opts.Asset = brick.AssetMicro
		opts.TileStride = uint32(size)
	case studAsset:
		opts.Asset = brick.AssetStud
	default:
		opts.Asset = brick.AssetDefault
	}

	colormap, err := source.NewPNGColormap(colormapFlag, linear)
	if err != nil {
		log.Fatalf("Loading colormap: %v", err)
	}

	var heightmap brick.Heightmap
	if imgMode {
		w, h := colormap.Size()
		heightmap = source.NewFlatHeightmap(w, h)
	} else {
		paths := strings.Split(heightmapFlag, ",")
		hm, err := source.NewPNGHeightmap(paths...)
		if err != nil {
			log.Fatalf("Loading heightmap: %v", err)
		}
		heightmap = hm
	}

	fmt.Printf("heightmap2brick %s (commit %s, built %s)\n", version, commit, buildDate)
	fmt.Printf("  %-14s %d\n", "Size:", size)
	fmt.Printf("  %-14s %d\n", "Scale:", scale)
	fmt.Printf("  %-14s %v\n", "Asset:", opts.Asset)
	fmt.Printf("  %-14s %v\n", "Quadtree:", quadtree)
	fmt.Printf("  %-14s %v\n", "Cull:", cull)
	fmt.Printf("  %-14s %v\n", "Snap:", snap)
	fmt.Printf("  %-14s %s\n", "Output:", outputPath)

	cancel := &progress.CancelFlag{}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Print("Cancelling…")
		cancel.Trigger()
	}()

	bar := progress.New("Reducing", cancel.Triggered)

	start := time.Now()
	bricks, err := brick.Reduce(heightmap, colormap, opts, bar.Update)
	bar.Finish()
	if err != nil {
		log.Fatalf("Reduce: %v", err)
	}
	if verbose {
		log.Printf("Reduced to %d bricks in %v", len(bricks), time.Since(start).Round(time.Millisecond))
	}

	writer, err := brsave.NewWriter(outputPath, brsave.Metadata{
		OwnerID:     ownerID,
		OwnerName:   ownerName,
		Description: fmt.Sprintf("heightmap2brick %s", version),
	})
	if err != nil {
		log.Fatalf("Creating archive writer: %v", err)
	}
	if err := writer.WriteAll(bricks); err != nil {
		writer.Abort()
		log.Fatalf("Writing bricks: %v", err)
	}
	if err := writer.Finalize(); err != nil {
		log.Fatalf("Finalizing archive: %v", err)
	}

	fi, _ := os.Stat(outputPath)
	fmt.Printf("Done: %d bricks, %s, %v → %s\n", len(bricks), humanSize(fi.Size()),
		time.Since(start).Round(time.Millisecond), outputPath)
}

func humanSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)
	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
