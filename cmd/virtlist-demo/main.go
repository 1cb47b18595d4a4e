package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log/v2"
	"github.com/gdamore/tcell/v3"
	"github.com/pelletier/go-toml/v2"

	"github.com/okvee/virtlist"
)

type config struct {
	Count           int    `toml:"count"`
	Mode            string `toml:"mode"`
	ItemSize        int    `toml:"item_size"`
	BatchSize       int    `toml:"batch_size"`
	DeferReposition bool   `toml:"defer_reposition"`
	WheelSpeed      int    `toml:"wheel_speed"`
	ScrollBars      string `toml:"scroll_bars"`
}

func defaultConfig() config {
	return config{
		Count:      10000,
		Mode:       "dynamic",
		ItemSize:   2,
		BatchSize:  200,
		WheelSpeed: 3,
		ScrollBars: "auto",
	}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func (c config) options() (virtlist.Options, error) {
	opts := virtlist.Options{
		Count:           c.Count,
		ItemSize:        c.ItemSize,
		BatchSize:       c.BatchSize,
		DeferReposition: c.DeferReposition,
		WheelSpeed:      c.WheelSpeed,
	}
	switch c.Mode {
	case "fixed":
		opts.Mode = virtlist.SizeModeFixed
	case "dynamic", "":
		opts.Mode = virtlist.SizeModeDynamic
	default:
		return opts, fmt.Errorf("unknown mode %q", c.Mode)
	}
	switch c.ScrollBars {
	case "auto", "":
		opts.ScrollBars = virtlist.ScrollBarAuto
	case "always":
		opts.ScrollBars = virtlist.ScrollBarAlways
	case "hover":
		opts.ScrollBars = virtlist.ScrollBarOnHover
	default:
		return opts, fmt.Errorf("unknown scroll_bars %q", c.ScrollBars)
	}
	return opts, nil
}

// demoList adds quit keys on top of the list's own navigation.
type demoList struct {
	*virtlist.VirtualList
}

func (d *demoList) InputHandler(event *tcell.EventKey) virtlist.Command {
	if event.Key() == tcell.KeyEscape || (event.Key() == tcell.KeyRune && event.Str() == "q") {
		return virtlist.QuitCommand{}
	}
	return d.VirtualList.InputHandler(event)
}

var words = strings.Fields("lorem ipsum dolor sit amet consectetur adipiscing elit sed do eiusmod tempor incididunt ut labore")

func itemText(index int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d ", index)
	n := 4 + (index*7)%23
	for i := range n {
		b.WriteString(words[(index+i)%len(words)])
		b.WriteByte(' ')
	}
	return strings.TrimSpace(b.String())
}

func main() {
	configPath := flag.String("config", "virtlist-demo.toml", "path to the demo config file")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false, Prefix: "virtlist-demo"})

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Fatal("load config", "err", err)
	}
	opts, err := cfg.options()
	if err != nil {
		logger.Fatal("invalid config", "err", err)
	}

	list, err := virtlist.NewVirtualList(func(index int) virtlist.Item {
		return virtlist.NewTextItem(itemText(index))
	}, opts)
	if err != nil {
		logger.Fatal("create list", "err", err)
	}
	list.SetBorder(true)
	list.SetTitle(fmt.Sprintf(" %d items (%s) ", cfg.Count, cfg.Mode))

	app := virtlist.NewApplication()
	list.SetTickFunc(app.Post)

	if err := app.SetRoot(&demoList{list}).Run(); err != nil {
		logger.Fatal("run", "err", err)
	}
	logger.Info("bye", "viewport", list.GetViewport())
}
