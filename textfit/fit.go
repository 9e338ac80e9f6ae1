package textfit

// Evaluate wraps the box content at sizePt and compares the stacked
// line height against the box height. Lines are returned in both the
// fit and no-fit cases.
func Evaluate(box TextBox, sizePt, lineSpacing float64, m Measurer) (FitResult, error) {
	if lineSpacing <= 0 {
		lineSpacing = DefaultLineSpacing
	}
	lines, err := Wrap(box, sizePt, m)
	if err != nil {
		return FitResult{}, err
	}
	height := float64(len(lines))*sizePt*lineSpacing + 2*box.Padding
	return FitResult{
		SizePt: sizePt,
		Lines:  lines,
		Height: height,
		Fits:   height <= box.Height,
	}, nil
}

// FindFittingSize scans candidate sizes downward from requestedPt
// until the content fits, decrementing by the step and clamping the
// final trial to the minimum size. Text that overflows even at the
// floor is returned with Fits=false rather than as an error; the only
// errors are degenerate boxes and non-positive size parameters.
//
// Sizes are small and each trial is cheap, so a linear scan is used;
// it preserves the largest-size-that-fits contract exactly.
func FindFittingSize(box TextBox, requestedPt float64, opts Options, m Measurer) (Outcome, error) {
	if requestedPt <= 0 || opts.MinSizePt < 0 || opts.StepPt < 0 || opts.LineSpacing < 0 {
		return Outcome{}, ErrInvalidSize
	}
	o := opts.withDefaults()

	size := requestedPt
	if size < o.MinSizePt {
		// The floor is authoritative in both directions.
		size = o.MinSizePt
	}

	evals := 0
	for {
		res, err := Evaluate(box, size, o.LineSpacing, m)
		if err != nil {
			return Outcome{}, err
		}
		evals++
		if res.Fits || size <= o.MinSizePt {
			return Outcome{
				SizePt:      res.SizePt,
				Lines:       res.Lines,
				Height:      res.Height,
				Fits:        res.Fits,
				Evaluations: evals,
			}, nil
		}
		size -= o.StepPt
		if size < o.MinSizePt {
			size = o.MinSizePt
		}
	}
}
