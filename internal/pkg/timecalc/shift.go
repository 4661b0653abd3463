package timecalc

import "strconv"

// ShiftResult breaks down a shift's working time.
type ShiftResult struct {
	SpanMinutes  int
	BreakMinutes int
	Net          WorkDuration

	// BreakClamped is set when the break is longer than the span. Net is then zero
	// and the shift configuration should be treated as invalid.
	BreakClamped bool
}

// ShiftHours computes the net working time of a shift. The break is subtracted
// after the overnight adjustment. breakMinutes must not be negative.
func ShiftHours(start, end TimeOfDay, breakMinutes int) ShiftResult {
	span := Span(start, end)
	res := ShiftResult{SpanMinutes: span, BreakMinutes: breakMinutes}

	net := span - breakMinutes
	if net < 0 {
		net = 0
		res.BreakClamped = true
	}
	res.Net = DurationOf(net)
	return res
}

// ComputeShiftDuration returns the net working duration of a shift given as
// "HH:MM" start and end times.
//
// When the break exceeds the span the zero duration is returned together with a
// ValidationError wrapping ErrBreakExceedsSpan.
func ComputeShiftDuration(start, end string, breakMinutes int) (WorkDuration, error) {
	s, err := parseField("start_time", start)
	if err != nil {
		return WorkDuration{}, err
	}
	e, err := parseField("end_time", end)
	if err != nil {
		return WorkDuration{}, err
	}
	if breakMinutes < 0 {
		return WorkDuration{}, &ValidationError{
			Field: "break_minutes",
			Value: strconv.Itoa(breakMinutes),
			Err:   ErrNegativeBreak,
		}
	}

	res := ShiftHours(s, e, breakMinutes)
	if res.BreakClamped {
		return res.Net, &ValidationError{
			Field: "break_minutes",
			Value: strconv.Itoa(breakMinutes),
			Err:   ErrBreakExceedsSpan,
		}
	}
	return res.Net, nil
}
