package led

import (
	"fmt"
	"image"

	"periph.io/x/conn/v3/display"
	"periph.io/x/extra/devices/screen"

	"github.com/coreman2200/ledmatrix/model"
)

// Console draws the strip as a row of ANSI colored blocks on the terminal.
// It is the fallback when no hardware can be opened.
type Console struct {
	*Buffer
	order  model.ChannelOrder
	screen display.Drawer
	img    *image.NRGBA
	out    []byte
	closed bool
}

func NewConsole(count int, order model.ChannelOrder) *Console {
	return &Console{
		Buffer: NewBuffer(count, order.Channels()),
		order:  order,
		screen: screen.New(count),
		img:    image.NewNRGBA(image.Rect(0, 0, count, 1)),
	}
}

func (c *Console) String() string { return "console" }

func (c *Console) Show() error {
	if c.closed {
		return ErrClosed
	}
	c.out = c.frame(c.out, nil)
	for i := 0; i < c.Len(); i++ {
		px := c.out[i*c.channels : (i+1)*c.channels]
		c.img.SetNRGBA(i, 0, c.order.Decode(px).NRGBA())
	}
	if err := c.screen.Draw(c.screen.Bounds(), c.img, image.Point{}); err != nil {
		return err
	}
	fmt.Println()
	return nil
}

func (c *Console) Close() error {
	if c.closed {
		return nil
	}
	c.blank()
	err := c.Show()
	c.closed = true
	if herr := c.screen.Halt(); err == nil {
		err = herr
	}
	return err
}
