package display

import (
	"fmt"
	"image"
	"io"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// SSD1322Config describes the wiring of a 4-wire SPI SSD1322 module.
type SSD1322Config struct {
	// Bus is the SPI port name, e.g. "SPI0.0". Empty picks the first port.
	Bus      string
	SpeedHz  int64
	DCPin    string
	ResetPin string
}

// DefaultSSD1322Config matches the common Raspberry Pi wiring.
func DefaultSSD1322Config() SSD1322Config {
	return SSD1322Config{Bus: "SPI0.0", SpeedHz: 8_000_000, DCPin: "GPIO24", ResetPin: "GPIO25"}
}

const (
	ssd1322Columns  = 480
	ssd1322MaxChunk = 4096
)

// SSD1322 drives a 4-bit grayscale OLED panel, usually 256x64.
type SSD1322 struct {
	conn   spi.Conn
	dc     gpio.PinOut
	reset  gpio.PinOut
	port   io.Closer
	width  int
	height int
	buf    []byte
}

// OpenSSD1322 initializes the host drivers, opens the SPI port and resets the panel.
func OpenSSD1322(cfg SSD1322Config, width, height int, logger Logger) (*SSD1322, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	port, err := spireg.Open(cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("open spi %q: %w", cfg.Bus, err)
	}
	speed := cfg.SpeedHz
	if speed <= 0 {
		speed = DefaultSSD1322Config().SpeedHz
	}
	conn, err := port.Connect(physic.Frequency(speed)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("connect spi: %w", err)
	}
	dc := gpioreg.ByName(cfg.DCPin)
	if dc == nil {
		_ = port.Close()
		return nil, fmt.Errorf("dc pin %q not found", cfg.DCPin)
	}
	var reset gpio.PinOut
	if cfg.ResetPin != "" {
		if p := gpioreg.ByName(cfg.ResetPin); p != nil {
			reset = p
		}
	}
	d, err := NewSSD1322(conn, dc, reset, width, height)
	if err != nil {
		_ = port.Close()
		return nil, err
	}
	d.port = port
	if logger != nil {
		logger.Infof("ssd1322", "display initialized (%dx%d) on %s", width, height, port)
	}
	return d, nil
}

// NewSSD1322 resets and configures a panel on an already connected bus.
func NewSSD1322(conn spi.Conn, dc, reset gpio.PinOut, width, height int) (*SSD1322, error) {
	if width <= 0 || height <= 0 || width%4 != 0 || width > ssd1322Columns || height > 128 {
		return nil, fmt.Errorf("ssd1322: unsupported size %dx%d", width, height)
	}
	d := &SSD1322{conn: conn, dc: dc, reset: reset, width: width, height: height, buf: make([]byte, width*height/2)}
	if reset != nil {
		if err := reset.Out(gpio.Low); err != nil {
			return nil, err
		}
		time.Sleep(time.Millisecond)
		if err := reset.Out(gpio.High); err != nil {
			return nil, err
		}
		time.Sleep(10 * time.Millisecond)
	}
	for _, c := range ssd1322Init(height) {
		if err := d.command(c[0], c[1:]...); err != nil {
			return nil, fmt.Errorf("ssd1322 init 0x%02X: %w", c[0], err)
		}
	}
	return d, nil
}

func ssd1322Init(height int) [][]byte {
	return [][]byte{
		{0xFD, 0x12},             // unlock
		{0xAE},                   // display off
		{0xB3, 0x91},             // clock divider
		{0xCA, byte(height - 1)}, // multiplex ratio
		{0xA2, 0x00},             // display offset
		{0xA1, 0x00},             // start line
		{0xA0, 0x14, 0x11},       // remap: nibble order, dual COM
		{0xB5, 0x00},
		{0xAB, 0x01}, // internal VDD
		{0xB4, 0xA0, 0xFD},
		{0xC1, 0x9F}, // contrast
		{0xC7, 0x0F}, // master current
		{0xB9},       // default gray table
		{0xB1, 0xE2}, // phase length
		{0xD1, 0xA2, 0x20},
		{0xBB, 0x1F}, // precharge voltage
		{0xB6, 0x08},
		{0xBE, 0x07}, // VCOMH
		{0xA6},       // normal display
		{0xA9},       // exit partial display
		{0xAF},       // display on
	}
}

// Update converts img to 4-bit grayscale and writes the full frame.
func (d *SSD1322) Update(img image.Image) error {
	pack4bit(d.buf, Grayscale(img, d.width, d.height))

	// Column addresses count groups of four pixels, centered in the 480 wide RAM.
	offset := (ssd1322Columns - d.width) / 2 / 4
	if err := d.command(0x15, byte(offset), byte(offset+d.width/4-1)); err != nil {
		return err
	}
	if err := d.command(0x75, 0x00, byte(d.height-1)); err != nil {
		return err
	}
	if err := d.command(0x5C); err != nil {
		return err
	}
	return d.data(d.buf)
}

func (d *SSD1322) Close() error {
	_ = d.command(0xAE)
	if d.port != nil {
		return d.port.Close()
	}
	return nil
}

// pack4bit stores two pixels per byte, the left pixel in the high nibble.
func pack4bit(dst []byte, g *image.Gray) {
	b := g.Bounds()
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := g.Pix[(y-b.Min.Y)*g.Stride:]
		for x := 0; x+1 < b.Dx(); x += 2 {
			dst[i] = row[x]&0xF0 | row[x+1]>>4
			i++
		}
	}
}

func (d *SSD1322) command(cmd byte, args ...byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return err
	}
	if err := d.conn.Tx([]byte{cmd}, nil); err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}
	return d.data(args)
}

func (d *SSD1322) data(p []byte) error {
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	for len(p) > 0 {
		n := min(len(p), ssd1322MaxChunk)
		if err := d.conn.Tx(p[:n], nil); err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}
