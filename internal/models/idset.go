package models

import "github.com/lib/pq"

// ContainsID reports whether the id-set column holds the given user id.
func ContainsID(set pq.Int64Array, id uint) bool {
	for _, v := range set {
		if v == int64(id) {
			return true
		}
	}
	return false
}

// IDs converts an id-set column to a slice of uint ids.
func IDs(set pq.Int64Array) []uint {
	out := make([]uint, 0, len(set))
	for _, v := range set {
		out = append(out, uint(v))
	}
	return out
}
