// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// rgblcd drives an Adafruit RGB LCD plate, or a simulation of it, from the
// command line.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	app        = kingpin.New("rgblcd", "Character LCD plate tool")
	debug      = app.Flag("debug", "Turn on debug logging.").Bool()
	configFile = app.Flag("config", "YAML configuration file.").Short('c').String()
	busName    = app.Flag("bus", "I²C bus name, the first bus when empty.").String()
	address    = app.Flag("address", "I²C address of the MCP23017.").Uint16()
	cols       = app.Flag("cols", "Display columns.").Int()
	rows       = app.Flag("rows", "Display rows.").Int()
	simulate   = app.Flag("simulate", "Draw a simulated display in the terminal.").Bool()
	snapshot   = app.Flag("snapshot", "Save a PNG of the simulated display on exit.").String()

	demo = app.Command("demo", "Show off the display features.")

	printCmd   = app.Command("print", "Print text.")
	printText  = printCmd.Arg("text", "Text to print, \\n starts a new line.").Required().String()
	printColor = printCmd.Flag("color", "Backlight color.").String()
	printClear = printCmd.Flag("clear", "Clear the display first.").Bool()

	buttons         = app.Command("buttons", "Report key presses until interrupted.")
	buttonsInterval = buttons.Flag("interval", "Polling interval.").Duration()

	version = app.Command("version", "Print the version.")
)

func main() {
	cmd, err := app.Parse(os.Args[1:])
	if err != nil {
		fmt.Printf("%v: Try --help\n", err.Error())
		os.Exit(1)
	}

	log.SetFormatter(&log.TextFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if *debug {
		log.Info("Enabling debug output...")
		log.SetLevel(log.DebugLevel)
	}

	if cmd == version.FullCommand() {
		showVersion()
		return
	}

	conf, err := readConfig(*configFile)
	if err != nil {
		log.Fatal(err)
	}
	if err := conf.override(*busName, *address, *cols, *rows); err != nil {
		log.Fatal(err)
	}
	if *snapshot != "" && !*simulate {
		log.Fatal("--snapshot needs --simulate")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	t, err := openTarget(conf, *simulate)
	if err != nil {
		log.Fatal(err)
	}

	switch cmd {
	case demo.FullCommand():
		err = runDemo(ctx, t, demoPause)
	case printCmd.FullCommand():
		err = runPrint(t, *printText, *printColor, *printClear)
	case buttons.FullCommand():
		interval := conf.PollInterval
		if *buttonsInterval > 0 {
			interval = *buttonsInterval
		}
		err = watchButtons(ctx, t, interval, conf.Messages)
	default:
		kingpin.FatalUsage("Unrecognized command")
	}
	if err != nil {
		log.Error(err)
	}

	if *snapshot != "" {
		if err := t.sim.SavePNG(*snapshot, 4); err != nil {
			log.Error(err)
		} else {
			log.Infof("Saved %s", *snapshot)
		}
	}
	if err := t.Close(); err != nil {
		log.Error(err)
	}
	if err != nil {
		os.Exit(1)
	}
}
