package scheduling

import (
	"fmt"
	"sort"
	"time"
)

// Interval é um intervalo semiaberto [Start, End) em minutos desde a
// meia-noite. Atendimentos nunca cruzam a meia-noite, então um dia é
// sempre auto-contido.
type Interval struct {
	Start int
	End   int
}

func (iv Interval) Empty() bool {
	return iv.End <= iv.Start
}

func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.End && other.Start < iv.End
}

// ClockToMinutes converte "15:04" em minutos desde a meia-noite.
func ClockToMinutes(clock string) (int, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func MinutesToClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// MinutesOfDay extrai os minutos desde a meia-noite local de um instante.
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// Merge ordena e funde intervalos sobrepostos ou adjacentes.
func Merge(ivs []Interval) []Interval {
	clean := make([]Interval, 0, len(ivs))
	for _, iv := range ivs {
		if !iv.Empty() {
			clean = append(clean, iv)
		}
	}
	if len(clean) == 0 {
		return nil
	}

	sort.Slice(clean, func(i, j int) bool {
		return clean[i].Start < clean[j].Start
	})

	out := []Interval{clean[0]}
	for _, iv := range clean[1:] {
		last := &out[len(out)-1]
		if iv.Start <= last.End {
			if iv.End > last.End {
				last.End = iv.End
			}
			continue
		}
		out = append(out, iv)
	}
	return out
}

// Subtract remove busy de cada intervalo livre, podendo parti-lo em dois.
func Subtract(free []Interval, busy Interval) []Interval {
	if busy.Empty() {
		return free
	}

	out := make([]Interval, 0, len(free)+1)
	for _, iv := range free {
		if !iv.Overlaps(busy) {
			out = append(out, iv)
			continue
		}

		if left := (Interval{Start: iv.Start, End: busy.Start}); !left.Empty() {
			out = append(out, left)
		}
		if right := (Interval{Start: busy.End, End: iv.End}); !right.Empty() {
			out = append(out, right)
		}
	}
	return out
}

func SubtractAll(free []Interval, busy []Interval) []Interval {
	out := free
	for _, b := range busy {
		out = Subtract(out, b)
	}
	return out
}
