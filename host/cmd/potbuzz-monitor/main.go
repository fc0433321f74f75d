package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/golang/glog"

	"potbuzz/host/config"
	"potbuzz/host/monitor"
	"potbuzz/host/serial"
)

var (
	configFile = flag.String("config", "potbuzz.yaml", "Configuration file")
	device     = flag.String("device", "", "Serial device path (default from config)")
	baud       = flag.Int("baud", 0, "Baud rate (default from config)")
	broker     = flag.String("mqtt", "", "MQTT broker URL, e.g. tcp://localhost:1883")
	topic      = flag.String("topic", "", "MQTT topic (default from config)")
	list       = flag.Bool("list", false, "List serial ports and exit")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	if *list {
		ports, err := serial.ListPorts()
		if err != nil {
			fatal(err)
		}
		if len(ports) == 0 {
			fmt.Println("No serial ports found")
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fatal(err)
	}
	if *device != "" {
		cfg.Serial.Port = *device
	}
	if *baud != 0 {
		cfg.Serial.Baud = *baud
	}
	if *broker != "" {
		cfg.MQTT.Broker = *broker
	}
	if *topic != "" {
		cfg.MQTT.Topic = *topic
	}
	source, err := cfg.Schedule.ReportSource()
	if err != nil {
		fatal(err)
	}

	port, err := serial.Open(&serial.Config{
		Device:      cfg.Serial.Port,
		Baud:        cfg.Serial.Baud,
		ReadTimeout: cfg.Serial.ReadTimeout,
	})
	if err != nil {
		fatal(err)
	}
	defer port.Close()
	if err := port.Flush(); err != nil {
		glog.Warningf("flush %s: %v", cfg.Serial.Port, err)
	}

	opts := []monitor.Option{monitor.WithSource(source)}
	if cfg.MQTT.Broker != "" {
		pub, err := monitor.NewMQTTPublisher(cfg.MQTT)
		if err != nil {
			fatal(err)
		}
		if err := pub.Connect(); err != nil {
			fatal(fmt.Errorf("mqtt connect %s: %w", cfg.MQTT.Broker, err))
		}
		defer pub.Close()
		glog.Infof("publishing to %s on %s", cfg.MQTT.Topic, cfg.MQTT.Broker)
		opts = append(opts, monitor.WithPublisher(pub))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	mon := monitor.New(port, opts...)
	done := make(chan error, 1)
	go func() { done <- mon.Run(ctx) }()

	fmt.Printf("Listening on %s at %d baud\n", cfg.Serial.Port, cfg.Serial.Baud)
	for r := range mon.Readings() {
		fmt.Printf("%s  value=%-5d compare=%-5d %5d Hz\n",
			r.Time.Format(time.TimeOnly), r.Value, r.Compare, r.Hz)
	}

	if err := <-done; err != nil && err != context.Canceled {
		fatal(err)
	}
	c := mon.Counters()
	glog.Infof("lines=%d readings=%d bad=%d publish_errors=%d", c.Lines, c.Readings, c.BadLines, c.PubErrors)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	glog.Flush()
	os.Exit(1)
}
