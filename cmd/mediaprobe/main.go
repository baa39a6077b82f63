// Command mediaprobe parses codec extradata from a file and prints the
// extracted stream parameters.
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ugparu/mediaprobe"
	"github.com/ugparu/mediaprobe/codec"
	"github.com/ugparu/mediaprobe/probe"
	"github.com/ugparu/mediaprobe/utils/logger"
)

var (
	flagCodec   string
	flagShape   string
	flagHex     bool
	flagVerbose bool
)

var codecNames = map[string]mediaprobe.CodecType{
	"h264": mediaprobe.H264,
	"avc":  mediaprobe.H264,
	"h265": mediaprobe.H265,
	"hevc": mediaprobe.H265,
	"vp8":  mediaprobe.VP8,
	"vp9":  mediaprobe.VP9,
	"av1":  mediaprobe.AV1,
}

var shapeNames = map[string]mediaprobe.ContainerShape{
	"":       mediaprobe.ShapeUnknown,
	"annexb": mediaprobe.ShapeAnnexB,
	"sized":  mediaprobe.ShapeSizePrefixed,
	"record": mediaprobe.ShapeConfigRecord,
}

var rootCmd = &cobra.Command{
	Use:           "mediaprobe --codec <name> [--shape annexb|sized|record] [--hex] <file>",
	Short:         "Extract stream parameters from codec extradata without decoding.",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVar(&flagCodec, "codec", "", "codec of the extradata: h264, h265, vp8, vp9, av1")
	rootCmd.Flags().StringVar(&flagShape, "shape", "", "container shape hint: annexb, sized, record")
	rootCmd.Flags().BoolVar(&flagHex, "hex", false, "input file holds hex text instead of raw bytes")
	rootCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")
	_ = rootCmd.MarkFlagRequired("codec")
}

func run(cmd *cobra.Command, args []string) error {
	if flagVerbose {
		logger.Init(logrus.DebugLevel)
	} else {
		logger.Init(logrus.WarnLevel)
	}

	codecType, ok := codecNames[strings.ToLower(flagCodec)]
	if !ok {
		return fmt.Errorf("unknown codec %q", flagCodec)
	}
	shape, ok := shapeNames[strings.ToLower(flagShape)]
	if !ok {
		return fmt.Errorf("unknown shape %q", flagShape)
	}

	extradata, err := readInput(args[0])
	if err != nil {
		return err
	}

	par, err := probe.Parse(codecType, extradata, shape, codec.NewParameters())
	if err != nil {
		return fmt.Errorf("%v: %w", codecType, err)
	}

	printParameters(cmd, codecType, par)
	return nil
}

func readInput(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !flagHex {
		return raw, nil
	}
	compact := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
			return -1
		}
		return r
	}, string(raw))
	return hex.DecodeString(compact)
}

func printParameters(cmd *cobra.Command, codecType mediaprobe.CodecType, par codec.Parameters) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-16s: %v\n", "Codec", codecType)
	if par.HasDimensions() {
		fmt.Fprintf(out, "%-16s: %dx%d\n", "Dimensions", par.Width, par.Height)
	}
	if par.PixelFormat != codec.PixelFormatUnknown {
		fmt.Fprintf(out, "%-16s: %v\n", "Pixel format", par.PixelFormat)
	}
	if par.Profile != codec.ProfileUnknown {
		fmt.Fprintf(out, "%-16s: %d\n", "Profile", par.Profile)
	}
	if par.Level != codec.ProfileUnknown {
		fmt.Fprintf(out, "%-16s: %d\n", "Level", par.Level)
	}
	if par.SAR.IsSet() {
		fmt.Fprintf(out, "%-16s: %v\n", "Aspect ratio", par.SAR)
	}
	if par.FrameRate.IsSet() {
		fmt.Fprintf(out, "%-16s: %v\n", "Frame rate", par.FrameRate)
	}
	if par.ColorRange != codec.ColorRangeUnspecified {
		fmt.Fprintf(out, "%-16s: %v\n", "Color range", par.ColorRange)
	}
	if par.ColorPrimaries != 0 {
		fmt.Fprintf(out, "%-16s: %d\n", "Color primaries", par.ColorPrimaries)
	}
	if par.ColorTransfer != 0 {
		fmt.Fprintf(out, "%-16s: %d\n", "Color transfer", par.ColorTransfer)
	}
	if par.ColorMatrix != 0 {
		fmt.Fprintf(out, "%-16s: %d\n", "Color matrix", par.ColorMatrix)
	}
	if par.BitRate > 0 {
		fmt.Fprintf(out, "%-16s: %d\n", "Bit rate", par.BitRate)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
