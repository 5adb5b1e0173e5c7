//go:build wioterminal

package main

import (
	"context"
	"time"

	"envmon-go/platform"
	"envmon-go/services/config"
	"envmon-go/services/monitor"
	"envmon-go/wifi"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("[main] envmon booting …")

	cfg, err := config.Load(config.Device)
	if err != nil {
		println("[main] config:", err.Error())
		halt()
	}

	board, err := platform.OpenWioTerminal()
	if err != nil {
		println("[main] board:", err.Error())
		halt()
	}
	// The I2C sensor comes up during Boot, after association.
	openClimate := func() (monitor.Climate, error) { return board.OpenClimate(cfg.Climate) }

	radio := wifi.Radio()
	m := monitor.New(cfg, monitor.Deps{
		Station:     radio.Station,
		Link:        radio.Link,
		OpenClimate: openClimate,
		Wire:        board.Wire(),
		Sink:        board.Sink,
	})
	println("[main] starting monitor …")
	_ = m.Run(context.Background())
}

func halt() {
	for {
		time.Sleep(time.Hour)
	}
}
