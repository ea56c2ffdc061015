package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
	"gopkg.in/yaml.v2"

	"slabsurf"
)

func main() {
	paramsPath := flag.String("params", "", "Read machining parameters from a YAML file. Flags override file values.")

	toolDiameter := flag.Float64("tool-diameter", 6, "Set the diameter of the end mill in mm.")
	stepOver := flag.Float64("step-over", 0, "Set the distance to move the tool over per pass in mm. 0 derives 0.75x tool diameter.")
	feed := flag.Float64("feed-rate", 400, "Set the cutting feed rate in mm/min.")
	plunge := flag.Float64("plunge-rate", 100, "Set the plunge feed rate in mm/min.")
	safeZ := flag.Float64("safety-height", 5, "Set the Z clearance for rapid moves in mm.")
	depth := flag.Float64("cutting-depth", 2, "Set the total depth to remove in mm.")
	depthPasses := flag.Int("depth-passes", 1, "Set the number of passes the depth is divided into.")
	rpm := flag.Float64("speed", 10000, "Set the spindle speed in RPM.")
	margin := flag.Float64("margin", 0, "Set the margin to buffer around the contour in mm.")
	route := flag.String("route", "auto", "Set whether the tool will move in horizontal or vertical lines, or auto.")
	bridgeGaps := flag.Bool("bridge-gaps", true, "Cut straight across contour gaps instead of retracting.")
	returnHome := flag.Bool("return-home", true, "Rapid back to X0 Y0 after the last pass.")

	calibrateFlag := flag.Bool("calibrate", false, "Treat the contour as pixel coordinates and calibrate via the three markers.")
	markerOrigin := flag.String("marker-origin", "", "Origin marker pixel position as x,y.")
	markerXAxis := flag.String("marker-x", "", "X-axis marker pixel position as x,y.")
	markerScale := flag.String("marker-scale", "", "Scale marker pixel position as x,y.")
	xDistance := flag.Float64("x-distance", 0, "Real-world origin to x-axis marker distance in mm.")
	yDistance := flag.Float64("y-distance", 0, "Real-world origin to scale marker distance in mm.")
	noRotation := flag.Bool("no-rotation", false, "Ignore the marker-derived orientation and use translation and scale only.")

	parseMode := flag.Bool("parse", false, "Parse an existing G-code program into polylines (JSON on stdout) instead of generating one.")
	outName := flag.String("name", "", "Program name for the header comment. Defaults to the input filename.")
	quiet := flag.Bool("quiet", false, "Suppress output of dimensions and pass counts.")

	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: slabsurf [options] CONTOURFILE\n")
		os.Exit(1)
	}
	inputPath := args[0]

	data, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if *parseMode {
		polylines := slabsurf.ParseProgram(string(data))
		enc := json.NewEncoder(os.Stdout)
		if err := enc.Encode(polylines); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		return
	}

	params := slabsurf.DefaultParameters()
	if *paramsPath != "" {
		raw, err := os.ReadFile(*paramsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		if err := yaml.Unmarshal(raw, &params); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", *paramsPath, err)
			os.Exit(1)
		}
	}

	dir, err := slabsurf.ParseDirection(*route)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	// flags the user set explicitly win over the params file
	override := map[string]func(){
		"tool-diameter": func() { params.ToolDiameterMm = *toolDiameter },
		"step-over":     func() { params.StepoverMm = *stepOver },
		"feed-rate":     func() { params.FeedRateMmPerMin = *feed },
		"plunge-rate":   func() { params.PlungeRateMmPerMin = *plunge },
		"safety-height": func() { params.SafetyHeightMm = *safeZ },
		"cutting-depth": func() { params.CuttingDepthMm = *depth },
		"depth-passes":  func() { params.DepthPasses = *depthPasses },
		"speed":         func() { params.SpindleSpeedRpm = *rpm },
		"margin":        func() { params.MarginMm = *margin },
		"route":         func() { params.PathDirection = dir },
		"bridge-gaps":   func() { params.BridgeGaps = *bridgeGaps },
		"return-home":   func() { params.ReturnToHome = *returnHome },
	}
	for name, apply := range override {
		if flag.CommandLine.Changed(name) {
			apply()
		}
	}

	contour, err := readContour(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", inputPath, err)
		os.Exit(1)
	}

	if *calibrateFlag {
		markers, err := parseMarkers(*markerOrigin, *markerXAxis, *markerScale)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		opts := slabsurf.DefaultCalibrationOptions()
		opts.UseRotation = !*noRotation
		mcs, err := slabsurf.Calibrate(markers, *xDistance, *yDistance, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		if !*quiet {
			fmt.Fprintf(os.Stderr, "Calibrated: %.6f mm/px, orientation %.4f rad.\n",
				mcs.PixelToMmRatio, mcs.OrientationRadians)
		}
		contour = mcs.PixelContourToMachine(contour)
	}

	if !*quiet {
		min, max := contour.BoundingBox()
		fmt.Fprintf(os.Stderr, "%d-point contour, %.1fx%.1f mm work area.\n",
			len(contour), max.X-min.X, max.Y-min.Y)
		fmt.Fprintf(os.Stderr, "Step-over is %g mm, margin %g mm.\n",
			params.EffectiveStepover(), params.MarginMm)
	}

	name := *outName
	if name == "" {
		name = inputPath
	}
	meta := slabsurf.ProgramMetadata{Filename: name, Timestamp: time.Now()}

	program, err := slabsurf.GenerateProgram(contour, params, meta)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	os.Stdout.WriteString(program)
}

// readContour decodes a JSON array of [x, y] pairs.
func readContour(data []byte) (slabsurf.Contour, error) {
	var pairs [][2]float64
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, fmt.Errorf("contour must be a JSON array of [x, y] pairs: %w", err)
	}
	contour := make(slabsurf.Contour, len(pairs))
	for i, p := range pairs {
		contour[i] = slabsurf.Point{X: p[0], Y: p[1]}
	}
	return contour, nil
}

func parseMarkers(origin, xAxis, scale string) ([]slabsurf.MarkerPoint, error) {
	inputs := []struct {
		value string
		role  slabsurf.MarkerRole
	}{
		{origin, slabsurf.MarkerOrigin},
		{xAxis, slabsurf.MarkerXAxis},
		{scale, slabsurf.MarkerScale},
	}
	markers := make([]slabsurf.MarkerPoint, 0, 3)
	for _, s := range inputs {
		parts := strings.Split(s.value, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("%s marker must be given as x,y", s.role)
		}
		x, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		y, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("%s marker must be given as integer x,y", s.role)
		}
		markers = append(markers, slabsurf.MarkerPoint{X: x, Y: y, Role: s.role})
	}
	return markers, nil
}
