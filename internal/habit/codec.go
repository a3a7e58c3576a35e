package habit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// wireHabit 持久化格式 / On-disk record written by Encode
type wireHabit struct {
	ID     int64           `json:"id"`
	Name   string          `json:"name"`
	Dates  map[string]bool `json:"dates"`
	Streak int             `json:"streak"`
}

// looseHabit accepts what older writers produced: numeric or string ids, and
// either "dates" or "completions" for the completion map.
type looseHabit struct {
	ID          json.RawMessage `json:"id"`
	Name        string          `json:"name"`
	Dates       map[string]any  `json:"dates"`
	Completions map[string]any  `json:"completions"`
}

// Encode 序列化习惯集合 / Encode serializes the collection to its persisted form.
func Encode(habits []Habit) ([]byte, error) {
	out := make([]wireHabit, 0, len(habits))
	for _, h := range habits {
		dates := make(map[string]bool, len(h.Completions))
		for d := range h.Completions {
			dates[d] = true
		}
		out = append(out, wireHabit{ID: int64(h.ID), Name: h.Name, Dates: dates, Streak: h.Streak})
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshal habits: %w", err)
	}
	return data, nil
}

// Decode 反序列化；streak 不可信，由调用方重算
// Decode parses a persisted collection. Cached streaks are not read; the
// caller recomputes them. Records with blank names are dropped, and records
// whose id is missing, non-numeric or duplicated are given a fresh id.
func Decode(data []byte) ([]Habit, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	var raw []looseHabit
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse habits: %w", err)
	}

	habits := make([]Habit, 0, len(raw))
	ids := make([]ID, 0, len(raw))
	seen := make(map[ID]bool, len(raw))
	var maxID ID
	for _, r := range raw {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			continue
		}
		completions := Completions{}
		mergeDates(completions, r.Dates)
		mergeDates(completions, r.Completions)

		id, ok := parseID(r.ID)
		if !ok || seen[id] {
			id = 0
		} else {
			seen[id] = true
			if id > maxID {
				maxID = id
			}
		}
		habits = append(habits, Habit{Name: name, Completions: completions})
		ids = append(ids, id)
	}
	for i := range habits {
		if ids[i] == 0 {
			maxID++
			ids[i] = maxID
		}
		habits[i].ID = ids[i]
	}
	return habits, nil
}

func mergeDates(dst Completions, src map[string]any) {
	for d, v := range src {
		if done, ok := v.(bool); ok && done && ValidDay(d) {
			dst[d] = struct{}{}
		}
	}
}

func parseID(raw json.RawMessage) (ID, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if v, err := n.Int64(); err == nil {
			return ID(v), v > 0
		}
		// 1.5e12 或 2.0 这类整数值浮点写法 / integral floats such as 1.5e12 or 2.0
		f, err := n.Float64()
		if err != nil || f <= 0 || f != math.Trunc(f) || f >= math.MaxInt64 {
			return 0, false
		}
		return ID(int64(f)), true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		return ID(v), err == nil && v > 0
	}
	return 0, false
}
