package memory

import (
	"fmt"
	"log/slog"
	"strings"
)

// Cartridge header offsets.
const (
	titleAddress         = 0x0134
	titleLength          = 16
	cartridgeTypeAddress = 0x0147
	romSizeAddress       = 0x0148
	ramSizeAddress       = 0x0149
)

// ControllerType identifies the bank controller on the cartridge.
type ControllerType uint8

const (
	NoController ControllerType = iota
	MBC1Controller
	MBC3Controller
)

func (t ControllerType) String() string {
	switch t {
	case NoController:
		return "none"
	case MBC1Controller:
		return "MBC1"
	case MBC3Controller:
		return "MBC3"
	}
	return "unknown"
}

// Cartridge is a parsed ROM image: the raw bytes plus the decoded header
// fields the bus needs to build the right controller.
type Cartridge struct {
	data []byte

	title      string
	controller ControllerType
	hasBattery bool
	hasRTC     bool

	romBanks int // 16 KiB units
	ramBanks int // 8 KiB units
}

// NewCartridge parses a ROM image. It fails on controller or size codes
// outside the supported tables; a file length that disagrees with the header
// is only warned about, since overdumps are common.
func NewCartridge(data []byte) (*Cartridge, error) {
	if len(data) < 0x0150 {
		return nil, fmt.Errorf("ROM image too small for a header: %d bytes", len(data))
	}

	c := &Cartridge{data: data}
	c.title = parseTitle(data)

	cartType := data[cartridgeTypeAddress]
	switch cartType {
	case 0x00:
		c.controller = NoController
	case 0x01, 0x02:
		c.controller = MBC1Controller
	case 0x03:
		c.controller = MBC1Controller
		c.hasBattery = true
	case 0x08:
		c.controller = NoController
	case 0x09:
		c.controller = NoController
		c.hasBattery = true
	case 0x0F, 0x10:
		c.controller = MBC3Controller
		c.hasRTC = true
		c.hasBattery = true
	case 0x11, 0x12:
		c.controller = MBC3Controller
	case 0x13:
		c.controller = MBC3Controller
		c.hasBattery = true
	default:
		return nil, fmt.Errorf("unsupported cartridge type 0x%02X", cartType)
	}

	romCode := data[romSizeAddress]
	if romCode > 0x08 {
		return nil, fmt.Errorf("unsupported ROM size code 0x%02X", romCode)
	}
	c.romBanks = 2 << romCode

	ramCode := data[ramSizeAddress]
	switch ramCode {
	case 0x00:
		c.ramBanks = 0
	case 0x02:
		c.ramBanks = 1
	case 0x03:
		c.ramBanks = 4
	case 0x04:
		c.ramBanks = 16
	case 0x05:
		c.ramBanks = 8
	default:
		return nil, fmt.Errorf("unsupported RAM size code 0x%02X", ramCode)
	}

	if declared := c.romBanks * romBankSize; declared != len(data) {
		slog.Warn("ROM size disagrees with header",
			"declared", declared, "actual", len(data), "title", c.title)
	}

	slog.Debug("cartridge loaded",
		"title", c.title,
		"controller", c.controller.String(),
		"rom_banks", c.romBanks,
		"ram_banks", c.ramBanks,
		"battery", c.hasBattery,
		"rtc", c.hasRTC)

	return c, nil
}

// Title returns the game title from the header.
func (c *Cartridge) Title() string { return c.title }

// Controller returns the decoded bank-controller type.
func (c *Cartridge) Controller() ControllerType { return c.controller }

func parseTitle(data []byte) string {
	raw := data[titleAddress : titleAddress+titleLength]
	end := len(raw)
	for i, b := range raw {
		if b == 0 {
			end = i
			break
		}
	}
	return strings.TrimSpace(string(raw[:end]))
}
