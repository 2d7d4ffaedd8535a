package result

import "fmt"

// Unsuccessful counts tests that did not pass.
// The zero value is the identity for Add.
type Unsuccessful struct {
	Failed  int `json:"failed"`
	Errored int `json:"errored"`
	Skipped int `json:"skipped"`
}

// Total is the number of unsuccessful tests.
func (u Unsuccessful) Total() int {
	return u.Failed + u.Errored + u.Skipped
}

// Add returns the pointwise sum of u and other.
func (u Unsuccessful) Add(other Unsuccessful) Unsuccessful {
	return Unsuccessful{
		Failed:  u.Failed + other.Failed,
		Errored: u.Errored + other.Errored,
		Skipped: u.Skipped + other.Skipped,
	}
}

// IsZero reports whether nothing was unsuccessful.
func (u Unsuccessful) IsZero() bool {
	return u == Unsuccessful{}
}

func (u Unsuccessful) String() string {
	return fmt.Sprintf("%d failed, %d errored, %d skipped", u.Failed, u.Errored, u.Skipped)
}

// Sum folds tallies. Order does not matter.
func Sum(tallies ...Unsuccessful) Unsuccessful {
	var total Unsuccessful
	for _, u := range tallies {
		total = total.Add(u)
	}
	return total
}
