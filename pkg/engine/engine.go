package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Fepozopo/rimp/pkg/raster"
)

// Apply runs the named command on img in place. args are the textual
// arguments described by the command's CommandSpec. A failed command leaves
// img unchanged.
func Apply(img *raster.Image, commandName string, args []string) error {
	if img == nil {
		return fmt.Errorf("source image is nil")
	}
	switch commandName {
	case "lighten":
		img.Lighten()
	case "darken":
		img.Darken()
	case "negative":
		img.Negative()
	case "enhanceContrast":
		img.EnhanceContrast()
	case "reduceContrast":
		img.ReduceContrast()
	case "flipHorizontal":
		img.FlipHorizontally()
	case "flipVertical":
		img.FlipVertically()

	case "shiftHorizontal":
		dir, err := directionArg(commandName, args)
		if err != nil {
			return err
		}
		img.ShiftHorizontally(dir)

	case "shiftVertical":
		dir, err := directionArg(commandName, args)
		if err != nil {
			return err
		}
		img.ShiftVertically(dir)

	case "rotate":
		img.Rotate()

	case "halve":
		return img.Halve()

	case "double":
		img.DoubleSize()

	case "encrypt":
		if len(args) != 1 {
			return fmt.Errorf("encrypt requires 1 arg: key")
		}
		key, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid key: %w", err)
		}
		img.EncryptDecrypt(key)

	case "filter":
		name := "blur"
		if len(args) >= 1 && strings.TrimSpace(args[0]) != "" {
			name = args[0]
		}
		kernel, err := ParseKernel(name)
		if err != nil {
			return err
		}
		return img.ApplyFilter(kernel)

	case "histogram":
		// read-only; callers fetch the counts with img.CalculateHistogram

	default:
		return fmt.Errorf("unsupported command: %s", commandName)
	}
	return nil
}

func directionArg(commandName string, args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s requires 1 arg: direction", commandName)
	}
	dir, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid direction: %w", err)
	}
	return dir, nil
}

// ParseKernel resolves a preset name (blur, sharpen, edge, gaussian) or a
// comma-separated row-major list of n*n weights with n odd.
func ParseKernel(spec string) (raster.Kernel, error) {
	spec = strings.TrimSpace(spec)
	switch strings.ToLower(spec) {
	case "blur", "box":
		return raster.BlurKernel(), nil
	case "sharpen":
		return raster.SharpenKernel(), nil
	case "edge", "edgedetect", "laplacian":
		return raster.EdgeDetectKernel(), nil
	case "gaussian", "gauss":
		return raster.GaussianKernel3x3(), nil
	}
	fields := strings.FieldsFunc(spec, func(r rune) bool { return r == ',' || r == ' ' || r == ';' })
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty kernel: %w", raster.ErrInvalidKernel)
	}
	n := int(math.Round(math.Sqrt(float64(len(fields)))))
	if n*n != len(fields) {
		return nil, fmt.Errorf("%d weights do not form a square kernel: %w", len(fields), raster.ErrInvalidKernel)
	}
	kernel := make(raster.Kernel, n)
	for i := range kernel {
		kernel[i] = make([]float64, n)
		for j := range kernel[i] {
			w, err := parseWeight(fields[i*n+j])
			if err != nil {
				return nil, fmt.Errorf("invalid weight %q: %w", fields[i*n+j], err)
			}
			kernel[i][j] = w
		}
	}
	if err := kernel.Validate(); err != nil {
		return nil, err
	}
	return kernel, nil
}

// parseWeight accepts decimals and simple fractions such as "1/9".
func parseWeight(s string) (float64, error) {
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, err
		}
		d, err := strconv.ParseFloat(den, 64)
		if err != nil {
			return 0, err
		}
		if d == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return n / d, nil
	}
	return strconv.ParseFloat(s, 64)
}
