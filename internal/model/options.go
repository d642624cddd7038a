package model

import "time"

// OptionsFlow summarizes one options-chain snapshot as call vs put day volume.
type OptionsFlow struct {
	Symbol     string
	CallVolume float64
	PutVolume  float64
	Contracts  int
	FetchedAt  time.Time
}

// PutCallRatio returns put volume over call volume, or 0 when call volume is zero.
func (f *OptionsFlow) PutCallRatio() float64 {
	if f.CallVolume == 0 {
		return 0
	}
	return f.PutVolume / f.CallVolume
}
