package mappers

import "time"

// utc normalizes nullable timestamps read back from the database.
func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
