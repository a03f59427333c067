package runner

import (
	"github.com/coreman2200/ledmatrix/internal/animation"
	"github.com/coreman2200/ledmatrix/internal/animation/colorcycle"
	"github.com/coreman2200/ledmatrix/internal/animation/life"
	"github.com/coreman2200/ledmatrix/internal/animation/strobe"
	"github.com/coreman2200/ledmatrix/internal/animation/sweep"
	"github.com/coreman2200/ledmatrix/internal/animation/ticker"
)

// Animations returns a registry holding every built-in animation.
func Animations() *animation.Registry {
	r := animation.NewRegistry()
	r.Register(colorcycle.Name, colorcycle.Factory)
	r.Register(life.Name, life.Factory)
	r.Register(strobe.Name, strobe.Factory)
	r.Register(ticker.Name, ticker.Factory)
	r.Register(sweep.Name, sweep.Factory)
	return r
}
