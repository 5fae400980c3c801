package Diffusion3D

import (
	"math"
	"sync"
	"time"

	"github.com/notargets/avs/chart2d"
	utils2 "github.com/notargets/avs/utils"
)

type ChartState struct {
	chart    *chart2d.Chart2D
	colorMap *utils2.ColorMap
	plotOnce sync.Once
	iters    []float64
	logRes   []float64
}

// Plot appends to the residual-history chart when graphing is enabled
func (c *Diffusion) Plot(iter int, resNorm float64, showGraph bool, graphDelay []time.Duration) {
	var (
		fmin, fmax = float32(-14), float32(2)
	)
	if !showGraph {
		return
	}
	c.chart.plotOnce.Do(func() {
		c.chart.chart = chart2d.NewChart2D(1920, 1280,
			0, float32(c.IP.MaxIterations), fmin, fmax)
		c.chart.colorMap = utils2.NewColorMap(-1, 1, 1)
		go c.chart.chart.Plot()
	})
	c.chart.iters = append(c.chart.iters, float64(iter))
	c.chart.logRes = append(c.chart.logRes, math.Log10(math.Max(resNorm, 1.e-16)))
	if err := c.chart.chart.AddSeries("Log10Residual", c.chart.iters, c.chart.logRes,
		chart2d.NoGlyph, chart2d.Solid, c.chart.colorMap.GetRGB(0.7)); err != nil {
		panic("unable to add graph series")
	}
	if len(graphDelay) != 0 {
		time.Sleep(graphDelay[0])
	}
}
