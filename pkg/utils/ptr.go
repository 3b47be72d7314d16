package utils

import "time"

func StringToPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func TimeToPtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func IntToPtr(i int64) *int64 {
	if i == 0 {
		return nil
	}
	return &i
}
