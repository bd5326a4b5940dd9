// Command vision-cli applies vision-core operations to image files.
//
// Operations are named on the command line and chained into a pipeline,
// so `-op gray,blur,canny` smooths and edge-detects in one run. File
// decoding and encoding stay in this command and the imageio package;
// the core library only ever sees pixel buffers.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/vision-core/edge"
	"github.com/ironsheep/vision-core/filter"
	"github.com/ironsheep/vision-core/histogram"
	"github.com/ironsheep/vision-core/imageio"
	"github.com/ironsheep/vision-core/morphology"
	"github.com/ironsheep/vision-core/pipeline"
	"github.com/ironsheep/vision-core/pixel"
	"github.com/ironsheep/vision-core/pixel/colorspace"
	"github.com/ironsheep/vision-core/threshold"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

type options struct {
	in, out string
	ops     string

	sigma        float64
	window       int
	low, high    float64
	value        float64
	offset       float64
	method       string
	rows, cols   int
	clip         float64
	size         int
	width        int
	height       int
	crop         string
	spatialSigma float64
	rangeSigma   float64
}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("vision-cli %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl, err := logrus.ParseLevel(os.Getenv("VISION_LOG_LEVEL")); err == nil {
		log.SetLevel(lvl)
	}

	var o options
	flag.StringVar(&o.in, "in", "", "input image path")
	flag.StringVar(&o.out, "out", "", "output image path")
	flag.StringVar(&o.ops, "op", "", "comma-separated operations to apply in order")
	flag.Float64Var(&o.sigma, "sigma", 1.4, "gaussian sigma (blur, canny)")
	flag.IntVar(&o.window, "window", 3, "window size (median, mean, adaptive)")
	flag.Float64Var(&o.low, "low", 50, "canny low threshold")
	flag.Float64Var(&o.high, "high", 150, "canny high threshold")
	flag.Float64Var(&o.value, "value", 128, "global threshold value")
	flag.Float64Var(&o.offset, "offset", 0, "adaptive threshold offset")
	flag.StringVar(&o.method, "method", "mean", "adaptive method: mean or gaussian")
	flag.IntVar(&o.rows, "rows", 8, "clahe tile rows")
	flag.IntVar(&o.cols, "cols", 8, "clahe tile cols")
	flag.Float64Var(&o.clip, "clip", 40, "clahe clip limit (bin count)")
	flag.IntVar(&o.size, "size", 3, "structuring element size (morphology)")
	flag.IntVar(&o.width, "width", 0, "resize target width")
	flag.IntVar(&o.height, "height", 0, "resize target height")
	flag.StringVar(&o.crop, "crop", "", "crop rectangle x1,y1,x2,y2 (x2/y2 exclusive)")
	flag.Float64Var(&o.spatialSigma, "spatial-sigma", 2, "bilateral spatial sigma")
	flag.Float64Var(&o.rangeSigma, "range-sigma", 30, "bilateral range sigma")
	flag.Parse()

	if o.in == "" || o.out == "" || o.ops == "" {
		fmt.Fprintln(os.Stderr, "vision-cli: -in, -out and -op are required (see --help)")
		os.Exit(2)
	}

	p := pipeline.New[uint8]()
	for _, name := range strings.Split(o.ops, ",") {
		stage, err := buildStage(strings.TrimSpace(name), &o)
		if err != nil {
			log.Fatalf("bad operation %q: %v", name, err)
		}
		p.Add(stage)
	}

	buf, err := imageio.Open(o.in)
	if err != nil {
		log.Fatalf("open %s: %v", o.in, err)
	}
	log.WithFields(logrus.Fields{
		"path":   o.in,
		"size":   fmt.Sprintf("%dx%d", buf.Width, buf.Height),
		"stages": p.Len(),
	}).Info("processing")

	startTime := time.Now()
	result, err := p.Run(buf)
	if err != nil {
		log.Fatalf("pipeline: %v", err)
	}
	log.WithField("elapsed", time.Since(startTime)).Debug("pipeline done")

	// Hue-bearing results cannot be encoded; bring them back to RGB.
	if result.Model == pixel.HSV || result.Model == pixel.HSL {
		if result, err = colorspace.Convert(result, pixel.RGB); err != nil {
			log.Fatalf("convert for save: %v", err)
		}
	}
	if err := imageio.Save(result, o.out); err != nil {
		log.Fatalf("save %s: %v", o.out, err)
	}
	log.WithField("path", o.out).Info("written")
}

// buildStage maps an operation name and the shared flag set to a
// pipeline stage over 8-bit buffers.
func buildStage(name string, o *options) (pipeline.Stage[uint8], error) {
	fn, err := stageFn(name, o)
	if err != nil {
		return nil, err
	}
	return pipeline.StageFunc[uint8]{StageName: name, Fn: fn}, nil
}

func stageFn(name string, o *options) (func(*pixel.Buffer[uint8]) (*pixel.Buffer[uint8], error), error) {
	switch name {
	case "gray":
		return func(b *pixel.Buffer[uint8]) (*pixel.Buffer[uint8], error) {
			return colorspace.Convert(b, pixel.Gray)
		}, nil
	case "rgb":
		return func(b *pixel.Buffer[uint8]) (*pixel.Buffer[uint8], error) {
			return colorspace.Convert(b, pixel.RGB)
		}, nil
	case "hsv":
		return func(b *pixel.Buffer[uint8]) (*pixel.Buffer[uint8], error) {
			return colorspace.Convert(b, pixel.HSV)
		}, nil
	case "blur":
		return func(b *pixel.Buffer[uint8]) (*pixel.Buffer[uint8], error) {
			return filter.GaussianBlur(b, o.sigma, filter.Reflect)
		}, nil
	case "median":
		return func(b *pixel.Buffer[uint8]) (*pixel.Buffer[uint8], error) {
			return filter.Median(b, o.window, filter.Reflect)
		}, nil
	case "mean":
		return func(b *pixel.Buffer[uint8]) (*pixel.Buffer[uint8], error) {
			return filter.Mean(b, o.window, filter.Reflect)
		}, nil
	case "bilateral":
		return func(b *pixel.Buffer[uint8]) (*pixel.Buffer[uint8], error) {
			return filter.Bilateral(b, o.spatialSigma, o.rangeSigma, filter.Reflect)
		}, nil
	case "sharpen":
		return func(b *pixel.Buffer[uint8]) (*pixel.Buffer[uint8], error) {
			k, err := filter.NewKernel([][]float64{
				{0, -1, 0},
				{-1, 5, -1},
				{0, -1, 0},
			})
			if err != nil {
				return nil, err
			}
			return filter.Convolve(b, k, filter.Reflect)
		}, nil
	case "equalize":
		return func(b *pixel.Buffer[uint8]) (*pixel.Buffer[uint8], error) {
			return histogram.Equalize(b)
		}, nil
	case "clahe":
		return func(b *pixel.Buffer[uint8]) (*pixel.Buffer[uint8], error) {
			return histogram.CLAHE(b, o.rows, o.cols, o.clip, nil)
		}, nil
	case "erode", "dilate", "open", "close", "gradient", "tophat", "blackhat":
		return morphStage(name, o), nil
	case "threshold":
		return grayStage(func(b *pixel.Buffer[uint8]) (*pixel.Buffer[uint8], error) {
			return threshold.Global(b, o.value)
		}), nil
	case "adaptive":
		m := threshold.Mean
		if o.method == "gaussian" {
			m = threshold.Gaussian
		}
		return grayStage(func(b *pixel.Buffer[uint8]) (*pixel.Buffer[uint8], error) {
			return threshold.Adaptive(b, o.window, o.offset, m)
		}), nil
	case "otsu":
		return grayStage(func(b *pixel.Buffer[uint8]) (*pixel.Buffer[uint8], error) {
			_, out, err := threshold.Otsu(b)
			return out, err
		}), nil
	case "sobel":
		return grayStage(func(b *pixel.Buffer[uint8]) (*pixel.Buffer[uint8], error) {
			grad, err := edge.Sobel(b)
			if err != nil {
				return nil, err
			}
			out := b.Shaped()
			for i, m := range grad.Mag {
				out.Pix[i] = pixel.Quantize[uint8](m)
			}
			return out, nil
		}), nil
	case "canny":
		return grayStage(func(b *pixel.Buffer[uint8]) (*pixel.Buffer[uint8], error) {
			return edge.Canny(b, o.sigma, o.low, o.high)
		}), nil
	case "resize":
		return func(b *pixel.Buffer[uint8]) (*pixel.Buffer[uint8], error) {
			return b.Resize(o.width, o.height)
		}, nil
	case "crop":
		var x1, y1, x2, y2 int
		if _, err := fmt.Sscanf(o.crop, "%d,%d,%d,%d", &x1, &y1, &x2, &y2); err != nil {
			return nil, fmt.Errorf("crop wants x1,y1,x2,y2: %w", err)
		}
		return func(b *pixel.Buffer[uint8]) (*pixel.Buffer[uint8], error) {
			return b.Crop(x1, y1, x2, y2)
		}, nil
	default:
		return nil, fmt.Errorf("unknown operation")
	}
}

// morphStage builds a morphology stage with a Rect element of -size.
func morphStage(name string, o *options) func(*pixel.Buffer[uint8]) (*pixel.Buffer[uint8], error) {
	return func(b *pixel.Buffer[uint8]) (*pixel.Buffer[uint8], error) {
		e, err := morphology.Rect(o.size)
		if err != nil {
			return nil, err
		}
		switch name {
		case "erode":
			return morphology.Erode(b, e)
		case "dilate":
			return morphology.Dilate(b, e)
		case "open":
			return morphology.Open(b, e)
		case "close":
			return morphology.Close(b, e)
		case "gradient":
			return morphology.Gradient(b, e)
		case "tophat":
			return morphology.TopHat(b, e)
		default:
			return morphology.BlackHat(b, e)
		}
	}
}

// grayStage converts to grayscale first if needed; thresholding and edge
// detection require single-channel input.
func grayStage(fn func(*pixel.Buffer[uint8]) (*pixel.Buffer[uint8], error)) func(*pixel.Buffer[uint8]) (*pixel.Buffer[uint8], error) {
	return func(b *pixel.Buffer[uint8]) (*pixel.Buffer[uint8], error) {
		if b.Channels != 1 {
			gray, err := colorspace.Convert(b, pixel.Gray)
			if err != nil {
				return nil, err
			}
			b = gray
		}
		return fn(b)
	}
}

func printHelp() {
	fmt.Println("vision-cli - apply vision-core image operations to files")
	fmt.Println()
	fmt.Println("Usage: vision-cli -in input.png -out output.png -op <ops> [options]")
	fmt.Println()
	fmt.Println("Operations (comma-separated, applied in order):")
	fmt.Println("  gray, rgb, hsv            color model conversion")
	fmt.Println("  blur, median, mean,")
	fmt.Println("  bilateral, sharpen        filtering")
	fmt.Println("  equalize, clahe           histogram enhancement")
	fmt.Println("  erode, dilate, open,")
	fmt.Println("  close, gradient,")
	fmt.Println("  tophat, blackhat          morphology")
	fmt.Println("  threshold, adaptive, otsu binarization")
	fmt.Println("  sobel, canny              edge detection")
	fmt.Println("  resize, crop              geometry")
	fmt.Println()
	fmt.Println("Run vision-cli with no arguments to see all option flags.")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  VISION_LOG_LEVEL=debug    Enable debug logging")
}
