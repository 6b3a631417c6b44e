package model

// QuotaStatus is the read-side view of one daily counter. CanProceed is the
// gate the UI consults; it is false both when the limit is reached and when
// the backing store could not be read.
type QuotaStatus struct {
	Count      int `json:"count"`
	Limit      int `json:"limit"`
	Remaining  int `json:"remaining"`
	CanProceed bool `json:"can_proceed"`
}
