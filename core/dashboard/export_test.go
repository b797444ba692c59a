package dashboard

import "time"

// SetNow freezes the dashboard clock; the returned func restores it.
func SetNow(t time.Time) (restore func()) {
	nowFunc = func() time.Time { return t }
	return func() { nowFunc = time.Now }
}
