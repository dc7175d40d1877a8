package model

import "github.com/bobonovski/goalign/table"

func init() {
	Register(Fertility, fertilityModel{})
}

// fertilityModel extends the HMM with a per word fertility distribution
// which penalizes source words collecting many target words.
type fertilityModel struct{}

func (fertilityModel) Variant() Variant { return Fertility }

func (fertilityModel) Scores(ctx *Context, dist []float64) (float64, error) {
	n := len(ctx.Source)
	jumps(ctx, dist)
	for i, s := range ctx.Source {
		dist[i+1] *= ctx.Counts.FertRatio(table.Row(s), ctx.Fert[i])
	}
	return mass(dist[:n+1])
}
