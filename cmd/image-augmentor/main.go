package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"k8s.io/klog/v2"

	"github.com/menta2k/image-augmentor/internal/config"
	"github.com/menta2k/image-augmentor/internal/utils"
	"github.com/menta2k/image-augmentor/pkg/augment"
)

func main() {
	klog.InitFlags(nil)
	defer klog.Flush()

	var (
		cfgPath, saveCfg   string
		in, out, ops, ext  string
		num, quality       int
		trainRatio, crop   float64
		scaleMin, scaleMax float64
		seed               int64
		lossless, noBar    bool
	)

	flag.StringVar(&cfgPath, "config", "", "YAML config file, defaults to ~/.config/image-augmentor/config.yaml when present (AUGMENT__* env vars are applied on top)")
	flag.StringVar(&saveCfg, "save-config", "", "write the effective configuration to this file and exit")
	flag.StringVar(&in, "in", "", "input directory with jpg/jpeg/png/bmp/tiff images")
	flag.StringVar(&out, "out", "", "output root; train/ and val/ are created inside")
	flag.IntVar(&num, "n", 0, "variants per source image")
	flag.StringVar(&ops, "ops", "", "comma separated operations: rotate,scale,crop")
	flag.Float64Var(&trainRatio, "train", 0, "fraction of variants routed to train (0..1)")
	flag.Float64Var(&scaleMin, "scale-min", 0, "minimum scale factor")
	flag.Float64Var(&scaleMax, "scale-max", 0, "maximum scale factor")
	flag.Float64Var(&crop, "crop", 0, "crop ratio (0..1, exclusive)")
	flag.StringVar(&ext, "ext", "", "output format: jpg|png|webp")
	flag.IntVar(&quality, "quality", 0, "JPEG/WebP output quality (1-100)")
	flag.BoolVar(&lossless, "lossless", false, "WebP output lossless mode")
	flag.Int64Var(&seed, "seed", 0, "random seed, 0 = time based")
	flag.BoolVar(&noBar, "no-progress", false, "do not draw a progress bar (use -v=1 to log each variant)")
	flag.Parse()

	cfg, err := config.LoadFromFile(config.ResolvePath(cfgPath))
	if err != nil {
		klog.Exitf("config: %v", err)
	}

	// Flags given on the command line win over file and environment.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "in":
			cfg.InputDir = in
		case "out":
			cfg.OutputDir = out
		case "n":
			cfg.NumVariations = num
		case "ops":
			cfg.SetOperations(ops)
		case "train":
			cfg.TrainRatio = trainRatio
		case "scale-min":
			cfg.ScaleRange.Min = scaleMin
		case "scale-max":
			cfg.ScaleRange.Max = scaleMax
		case "crop":
			cfg.CropRatio = crop
		case "ext":
			cfg.Output.Format = ext
		case "quality":
			cfg.Output.Quality = quality
		case "lossless":
			cfg.Output.Lossless = lossless
		case "seed":
			cfg.Seed = seed
		}
	})

	if saveCfg != "" {
		if err := cfg.SaveToFile(saveCfg); err != nil {
			klog.Exitf("%v", err)
		}
		fmt.Printf("wrote %s\n", saveCfg)
		return
	}

	if err := cfg.Validate(); err != nil {
		klog.Errorf("invalid configuration: %v", err)
		fmt.Fprintf(os.Stderr, "usage: %s -in photos/ -out dataset/ -n 10 -ops rotate,scale,crop [-train 0.8]\n", filepath.Base(os.Args[0]))
		klog.Flush()
		os.Exit(2)
	}

	req, err := cfg.Request()
	if err != nil {
		klog.Exitf("%v", err)
	}
	orchestrator, err := augment.New(cfg.AugmentConfig())
	if err != nil {
		klog.Exitf("%v", err)
	}
	orchestrator.SetObserver(newObserver(noBar))

	summary, err := orchestrator.Run(req)
	if err != nil {
		klog.Exitf("%v", err)
	}

	fmt.Printf("Done: %d of %d variants written from %d images (%d could not be decoded)\n",
		summary.VariantsProduced, summary.VariantsExpected, summary.ImagesFound, summary.ImagesFound-summary.ImagesDecoded)
	fmt.Printf("  train: %4d  %s\n", summary.TrainProduced, summary.TrainDir)
	fmt.Printf("  val:   %4d  %s\n", summary.ValProduced, summary.ValDir)
	fmt.Printf("  size:  %s\n", utils.FormatFileSize(summary.BytesWritten))
}
