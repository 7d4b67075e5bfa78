package qc

import (
	"fmt"
	"math"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"

	"github.com/Spok95/qc-tracker/internal/apperr"
	"github.com/Spok95/qc-tracker/internal/models"
)

var trailingDigits = regexp.MustCompile(`\d+$`)

// MaxSamples caps one draw; a range needing more is rejected.
const MaxSamples = 5000

// CodeRange is a parsed pair of QC codes such as "Altrum/001" .. "Altrum/100".
type CodeRange struct {
	Prefix string
	Width  int
	Lo, Hi int64
}

func (r CodeRange) Size() int64 { return r.Hi - r.Lo + 1 }

// SampleSize is ceil(10% of the range), never less than one.
func (r CodeRange) SampleSize() int64 {
	n := r.Size()
	k := n / 10
	if n%10 != 0 {
		k++
	}
	return max(k, 1)
}

// Code renders n with the prefix and zero padding of the start code.
func (r CodeRange) Code(n int64) string {
	return fmt.Sprintf("%s%0*d", r.Prefix, r.Width, n)
}

func ParseRange(start, end string) (CodeRange, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" || end == "" {
		return CodeRange{}, apperr.Invalidf("please enter both start and end QC codes")
	}
	sd := trailingDigits.FindString(start)
	ed := trailingDigits.FindString(end)
	if sd == "" || ed == "" {
		return CodeRange{}, apperr.Invalidf("QC codes must end with numeric values (e.g., Altrum/01)")
	}
	sn, err := strconv.ParseInt(sd, 10, 64)
	if err != nil {
		return CodeRange{}, apperr.Invalidf("QC code %q: numeric suffix is too large", start)
	}
	en, err := strconv.ParseInt(ed, 10, 64)
	if err != nil {
		return CodeRange{}, apperr.Invalidf("QC code %q: numeric suffix is too large", end)
	}
	lo, hi := sn, en
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi-lo == math.MaxInt64 {
		return CodeRange{}, apperr.Invalidf("QC code range %s..%s is too large", start, end)
	}
	cr := CodeRange{
		Prefix: strings.TrimSuffix(start, sd),
		Width:  len(sd),
		Lo:     lo,
		Hi:     hi,
	}
	if k := cr.SampleSize(); k > MaxSamples {
		return CodeRange{}, apperr.Invalidf("QC code range %s..%s needs %d samples, the limit is %d", start, end, k, MaxSamples)
	}
	return cr, nil
}

// GenerateSamples draws SampleSize distinct codes from the range, uniformly and
// without replacement. Samples come back in draw order, each with a clean score.
func GenerateSamples(start, end string, rng *rand.Rand) ([]models.SubSampleRecord, error) {
	cr, err := ParseRange(start, end)
	if err != nil {
		return nil, err
	}
	picks := drawDistinct(cr.Size(), cr.SampleSize(), rng)
	out := make([]models.SubSampleRecord, 0, len(picks))
	for _, off := range picks {
		out = append(out, models.SubSampleRecord{
			QCCode:  cr.Code(cr.Lo + off),
			Errors:  []string{},
			NoError: true,
			Score:   MaxScore,
		})
	}
	return out, nil
}

// drawDistinct is a partial Fisher-Yates shuffle of [0, n) that only materialises
// the swapped positions, so memory stays O(k) for huge ranges.
func drawDistinct(n, k int64, rng *rand.Rand) []int64 {
	if k > n {
		k = n
	}
	swapped := make(map[int64]int64, k)
	at := func(i int64) int64 {
		if v, ok := swapped[i]; ok {
			return v
		}
		return i
	}
	out := make([]int64, 0, k)
	for i := int64(0); i < k; i++ {
		j := i + rng.Int64N(n-i)
		vi, vj := at(i), at(j)
		swapped[j] = vi
		swapped[i] = vj
		out = append(out, vj)
	}
	return out
}
