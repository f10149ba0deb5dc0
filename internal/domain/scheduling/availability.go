package scheduling

// TimeSlot é um início bookável já formatado para resposta.
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DaySchedule reúne, já convertido para minutos, tudo que afeta a agenda
// de um profissional num dia: janelas recorrentes, pausas, bloqueios
// pontuais e atendimentos não cancelados.
type DaySchedule struct {
	Windows []Interval
	Breaks  []Interval
	DayOff  bool
	Blocked []Interval
	Busy    []Interval
}

// FreeIntervals aplica a subtração em camadas: janelas − pausas −
// bloqueios − atendimentos. DayOff zera o dia inteiro.
func FreeIntervals(s DaySchedule) []Interval {
	if s.DayOff || len(s.Windows) == 0 {
		return nil
	}

	free := Merge(s.Windows)
	free = SubtractAll(free, s.Breaks)
	free = SubtractAll(free, s.Blocked)
	free = SubtractAll(free, Merge(s.Busy))
	return free
}

// SlotFits responde se [start, start+duration) cabe inteiro dentro de um
// único intervalo livre. Encostar no fim da janela é válido; passar um
// minuto que seja, não.
func SlotFits(free []Interval, start, durationMin int) bool {
	if durationMin <= 0 {
		return false
	}
	end := start + durationMin
	for _, iv := range free {
		if start >= iv.Start && end <= iv.End {
			return true
		}
	}
	return false
}

// EnumerateSlotStarts lista os inícios candidatos na granularidade dada.
// A grade é ancorada no início de cada intervalo livre.
func EnumerateSlotStarts(free []Interval, durationMin, stepMin int) []int {
	if durationMin <= 0 || stepMin <= 0 {
		return nil
	}

	var starts []int
	for _, iv := range free {
		for s := iv.Start; s+durationMin <= iv.End; s += stepMin {
			starts = append(starts, s)
		}
	}
	return starts
}
