//go:build linux

// Command envmon-bench runs the monitor on a Linux host with the SHT3x on
// a periph I2C bus and, optionally, the DS18B20 on a GPIO line. The screen
// is replaced by the log.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"periph.io/x/conn/v3/physic"

	"envmon-go/platform"
	"envmon-go/services/config"
	"envmon-go/services/monitor"
	"envmon-go/wifi"
)

func main() {
	var (
		cfgPath = flag.String("config", "", "JSON file merged over the embedded settings")
		device  = flag.String("device", "bench", "embedded settings to start from")
		i2cBus  = flag.String("i2c", "", "periph I2C bus name (default: first bus)")
		pin     = flag.String("pin", "", "GPIO for the DS18B20 data line (empty: no probe)")
		iface   = flag.String("iface", "", "network interface to report")
		once    = flag.Bool("once", false, "boot, run one cycle and exit")
	)
	flag.Parse()
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	cfg, err := config.Load(*device)
	if err != nil {
		log.Fatalf("[bench] config: %v", err)
	}
	if *cfgPath != "" {
		raw, err := os.ReadFile(*cfgPath)
		if err != nil {
			log.Fatalf("[bench] read config: %v", err)
		}
		if err := config.Decode(raw, &cfg); err != nil {
			log.Fatalf("[bench] %s: %v", *cfgPath, err)
		}
		if err := config.Validate(cfg); err != nil {
			log.Fatalf("[bench] %s: %v", *cfgPath, err)
		}
	}
	if *pin == "" && !cfg.WithoutSensors {
		log.Printf("[bench] no -pin given, water fixed at %.1f C", cfg.DummyWaterC)
		cfg.WithoutSensors = true
	}

	board, err := platform.OpenBench(platform.BenchOptions{I2CBus: *i2cBus, Pin: *pin, Iface: *iface})
	if err != nil {
		log.Fatalf("[bench] %v", err)
	}

	openClimate := func() (monitor.Climate, error) {
		c, err := board.OpenClimate(cfg.Climate)
		if err != nil {
			return nil, err
		}
		return loggedClimate{c, cfg.Climate}, nil
	}

	radio := wifi.Radio()
	m := monitor.New(cfg, monitor.Deps{
		Station:     radio.Station,
		Link:        radio.Link,
		OpenClimate: openClimate,
		Wire:        board.Wire(),
		Sink:        board.Sink,
		Halt:        func() { os.Exit(1) },
	})

	if *once {
		if err := m.Boot(); err != nil {
			log.Fatalf("[bench] boot: %v", err)
		}
		if err := m.Cycle(); err != nil {
			log.Fatalf("[bench] cycle: %v", err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := m.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("[bench] %v", err)
	}
}

// loggedClimate logs every good sample in periph units.
type loggedClimate struct {
	monitor.Climate
	name string
}

func (c loggedClimate) Measure() error {
	if err := c.Climate.Measure(); err != nil {
		return err
	}
	e := env(c.Celsius(), c.Humidity())
	log.Printf("[bench] %s %s %s", c.name, e.Temperature, e.Humidity)
	return nil
}

func env(celsius, rh float32) *physic.Env {
	return &physic.Env{
		Temperature: physic.ZeroCelsius + physic.Temperature(float64(celsius)*float64(physic.Celsius)),
		Humidity:    physic.RelativeHumidity(float64(rh) * float64(physic.PercentRH)),
	}
}
