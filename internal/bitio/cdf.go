package bitio

// nsymsToSpeed adds to the adaptation shift for larger alphabets.
var nsymsToSpeed = [17]int{0, 0, 1, 1, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2}

// UpdateCDF moves the inverse CDF cdf towards symbol s. The adaptation rate
// starts fast and slows down as the counter in cdf[nsyms] grows (capped at 32).
func UpdateCDF(cdf []uint16, s, nsyms int) {
	count := int(cdf[nsyms])
	rate := 3 + nsymsToSpeed[nsyms]
	if count > 15 {
		rate++
	}
	if count > 31 {
		rate++
	}
	tmp := CDFProbTop
	for i := 0; i < nsyms-1; i++ {
		if i == s {
			tmp = 0
		}
		v := int(cdf[i])
		if tmp < v {
			cdf[i] = uint16(v - ((v - tmp) >> uint(rate)))
		} else {
			cdf[i] = uint16(v + ((tmp - v) >> uint(rate)))
		}
	}
	if count < 32 {
		cdf[nsyms]++
	}
}

// InitCDF fills cdf with the inverse CDF of the given symbol weights and
// clears its counter. len(cdf) must be len(weights)+1 and every weight must
// be positive.
func InitCDF(cdf []uint16, weights ...int) {
	total := 0
	for _, w := range weights {
		total += w
	}
	cum := 0
	for i, w := range weights {
		cum += w
		cdf[i] = uint16(CDFProbTop - (cum*CDFProbTop+total/2)/total)
	}
	cdf[len(weights)-1] = 0
	cdf[len(weights)] = 0
}
