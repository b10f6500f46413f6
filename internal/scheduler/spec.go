package scheduler

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/IGCrystal-NEO/ewords/pkg/models"
)

// ErrInvalidSpec reports a reminder request with no safe interpretation.
var ErrInvalidSpec = errors.New("invalid reminder spec")

const absoluteLayout = "2006-01-02 15:04"

var digitsRe = regexp.MustCompile(`\d+`)

// ParseSpec turns free-form reminder text into a tagged ReminderSpec.
// Accepted forms:
//
//	"one day" / "daily" / "一天"        recurring every 24h
//	"2 hours" / "2小时"                 recurring, hours
//	"30 minutes" / "30分钟"             recurring, minutes
//	"45"                                bare number, recurring minutes
//	"once 30 minutes" / "in 2 hours"    one-shot delay
//	"at 2026-01-02 15:04"               one-shot at an absolute instant
//	"cancel" / "off" / "stop" / "取消"  cancellation token
func ParseSpec(text string) (models.ReminderSpec, error) {
	text = strings.TrimSpace(text)
	lower := strings.ToLower(text)
	if lower == "" {
		return models.ReminderSpec{}, fmt.Errorf("%w: empty", ErrInvalidSpec)
	}

	switch lower {
	case "cancel", "off", "stop", "取消":
		return models.ReminderSpec{Cancel: true}, nil
	}

	if rest, ok := strings.CutPrefix(lower, "at "); ok {
		at, err := time.ParseInLocation(absoluteLayout, strings.TrimSpace(rest), time.Local)
		if err != nil {
			return models.ReminderSpec{}, fmt.Errorf("%w: %q (want \"at %s\")", ErrInvalidSpec, text, absoluteLayout)
		}
		return models.ReminderSpec{Kind: models.OneShotAbsolute, At: at}, nil
	}

	kind := models.RecurringInterval
	if rest, ok := strings.CutPrefix(lower, "once "); ok {
		kind, lower = models.OneShotDelay, rest
	} else if rest, ok := strings.CutPrefix(lower, "in "); ok {
		kind, lower = models.OneShotDelay, rest
	}

	interval, err := parseInterval(lower)
	if err != nil {
		return models.ReminderSpec{}, err
	}
	return models.ReminderSpec{Kind: kind, Interval: interval}, nil
}

func parseInterval(lower string) (time.Duration, error) {
	switch {
	case lower == "one day" || lower == "daily" || strings.Contains(lower, "一天"):
		return 24 * time.Hour, nil

	case strings.Contains(lower, "day"):
		return time.Duration(number(lower, 1)) * 24 * time.Hour, nil

	case strings.Contains(lower, "hour") || strings.Contains(lower, "小时"):
		return time.Duration(number(lower, 1)) * time.Hour, nil

	case strings.Contains(lower, "min") || strings.Contains(lower, "分钟"):
		return time.Duration(number(lower, 10)) * time.Minute, nil
	}

	// A bare number means minutes.
	if n, err := strconv.Atoi(lower); err == nil && n > 0 {
		return time.Duration(n) * time.Minute, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSpec, lower)
}

// number extracts the leading digits of the text, falling back to def when
// none are present ("hour" reads as "1 hour").
func number(s string, def int) int {
	m := digitsRe.FindString(s)
	if m == "" {
		return def
	}
	n, err := strconv.Atoi(m)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
