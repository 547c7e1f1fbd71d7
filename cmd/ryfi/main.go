package main

/*------------------------------------------------------------------
 *
 * Purpose:	Main program for the RyFi IP-over-radio bridge: parse the
 *		CLI/config surface, open the TUN interface and the RX/TX
 *		radio devices, and run the pipeline until interrupted.
 *
 * Description:	Follows the original source's main.cpp construction and
 *		start/stop ordering (build every stage, start outward from
 *		the TUN side, stop in reverse) translated onto this repo's
 *		device.Registry/TXPipeline/RXPipeline types in place of
 *		main.cpp's hand-built Transmitter/FastAGC/BladeRF/Receiver
 *		chain.
 *
 *------------------------------------------------------------------*/

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/gordonklaus/portaudio"

	"github.com/ryzerth/ryfi/ryfi"
	"github.com/ryzerth/ryfi/ryfi/device"
)

func main() {
	cfg, err := ryfi.ParseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := ryfi.NewLogger("main")

	reg := device.NewRegistry()
	reg.Register(device.NewAudioDriver())

	if cfg.RigSpec != "" {
		model, port, baud, err := device.ParseRigSpec(cfg.RigSpec)
		if err != nil {
			log.Fatal("parsing --rig", "err", err)
		}

		reg.Register(device.NewHamlibDriver(model, port, baud))
	}

	if err := portaudio.Initialize(); err != nil {
		log.Fatal("initializing portaudio", "err", err)
	}
	defer portaudio.Terminate()

	if cfg.Drivers {
		for _, name := range reg.DriverNames() {
			fmt.Println(name)
		}

		os.Exit(0)
	}

	if cfg.List {
		infos, err := reg.ListDevices()
		if err != nil {
			log.Fatal("listing devices", "err", err)
		}

		for _, info := range infos {
			fmt.Printf("%s:%s\t%s\t%s\n", info.Driver, info.Identifier, info.Type, info.Label)
		}

		usbDevices, err := device.EnumerateUSBDevices()
		if err != nil {
			log.Warn("enumerating USB tty/sound nodes", "err", err)
		}

		for _, d := range usbDevices {
			fmt.Printf("udev:%s\t%s\tvendor=%s product=%s serial=%s\n",
				d.DevNode, d.Subsystem, d.VendorID, d.ProductID, d.Serial)
		}

		os.Exit(0)
	}

	var ptt *device.GPIOPTT

	if cfg.PTTGPIOSpec != "" {
		chip, line, invert, err := device.ParseGPIOPTTSpec(cfg.PTTGPIOSpec)
		if err != nil {
			log.Fatal("parsing --ptt-gpio", "err", err)
		}

		ptt, err = device.OpenGPIOPTT(chip, line, invert)
		if err != nil {
			log.Fatal("opening PTT GPIO line", "err", err)
		}

		if err := ptt.Key(); err != nil {
			log.Fatal("keying PTT GPIO line", "err", err)
		}

		defer func() {
			if err := ptt.Close(); err != nil {
				log.Warn("closing PTT GPIO line", "err", err)
			}
		}()
	}

	if cfg.RXDevice == "" || cfg.TXDevice == "" {
		fmt.Fprintln(os.Stderr, "both --rxdev and --txdev are required")
		os.Exit(1)
	}

	var logFile *ryfi.DailyLogFile

	if cfg.LogDir != "" {
		logFile, err = ryfi.NewDailyLogFile(cfg.LogDir, ryfi.DefaultLogFilePattern)
		if err != nil {
			log.Fatal("opening log directory", "err", err)
		}
		defer logFile.Close()
	}

	tun, err := ryfi.OpenTUN(cfg.TunName)
	if err != nil {
		log.Fatal("opening TUN interface", "err", err)
	}
	defer tun.Close()

	log.Info("opened TUN interface", "name", tun.Name)

	sampleRate := ryfi.DeviceSampleRate(cfg.BaudRate)

	rxDriver, rxIdent, err := device.Select(reg, cfg.RXDevice)
	if err != nil {
		log.Fatal("resolving rxdev", "err", err)
	}

	rx, err := rxDriver.OpenRX(rxIdent, sampleRate)
	if err != nil {
		log.Fatal("opening RX device", "err", err)
	}
	defer rx.Close()

	if err := rx.SetFrequencyHz(cfg.RXFreqHz); err != nil {
		log.Fatal("tuning RX device", "err", err)
	}

	txDriver, txIdent, err := device.Select(reg, cfg.TXDevice)
	if err != nil {
		log.Fatal("resolving txdev", "err", err)
	}

	tx, err := txDriver.OpenTX(txIdent, sampleRate)
	if err != nil {
		log.Fatal("opening TX device", "err", err)
	}
	defer tx.Close()

	if err := tx.SetFrequencyHz(cfg.TXFreqHz); err != nil {
		log.Fatal("tuning TX device", "err", err)
	}

	rs := ryfi.NewReedSolomon()
	queue := ryfi.NewPacketQueue()

	var monitor *ryfi.SampleMonitor

	var rxFilter ryfi.SampleFilter = ryfi.NoopFilter{}

	if cfg.UDPDump {
		monitor, err = ryfi.NewSampleMonitor(cfg.UDPHost, cfg.UDPPort)
		if err != nil {
			log.Fatal("opening sample monitor", "err", err)
		}
		defer monitor.Close()

		rxFilter = &monitorTap{monitor: monitor}

		if cfg.Announce {
			announcer, err := device.Announce(cfg.TunName, cfg.UDPPort)
			if err != nil {
				log.Warn("mDNS announce failed", "err", err)
			} else {
				defer announcer.Close()
			}
		}
	}

	txPipeline := ryfi.NewTXPipeline(queue, rs, tx, nil)

	onPacket := func(data []byte) {
		if err := tun.Send(data); err != nil {
			log.Warn("writing packet to TUN", "err", err)
		}
	}

	rxPipeline := ryfi.NewRXPipeline(rx, rs, rxFilter, onPacket)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)

	go func() { errCh <- txPipeline.Run(ctx) }()
	go func() { errCh <- rxPipeline.Run(ctx) }()
	go readTUNLoop(ctx, tun, queue, log)

	if logFile != nil {
		go statsLoop(ctx, rxPipeline, queue, logFile)
	}

	<-ctx.Done()
	log.Info("shutting down")

	txPipeline.Stop()
	rxPipeline.Stop()

	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil && ctx.Err() == nil {
			log.Error("pipeline stopped with error", "err", err)
		}
	}
}

// readTUNLoop feeds every packet read from the TUN interface into the TX
// queue, dropping (and logging) packets the queue rejects per §4.1's
// QueueOverflow rule.
func readTUNLoop(ctx context.Context, tun *ryfi.TUN, queue *ryfi.PacketQueue, log *charmlog.Logger) {
	buf := make([]byte, ryfi.MaxPacketBytes)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		n, err := tun.Recv(buf)
		if err != nil {
			if ctx.Err() != nil {
				return
			}

			log.Warn("reading from TUN", "err", err)

			continue
		}

		pkt, err := ryfi.NewPacket(buf[:n])
		if err != nil {
			log.Warn("dropping oversized TUN packet", "err", err)

			continue
		}

		if !queue.Push(pkt) {
			log.Warn("TX queue full, dropping packet")
		}
	}
}

// statsLoop writes periodic link counters to the daily log file, the
// nearest analogue to the teacher's log.go heard-station CSV line.
func statsLoop(ctx context.Context, rxPipeline *ryfi.RXPipeline, queue *ryfi.PacketQueue, logFile *ryfi.DailyLogFile) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			line := fmt.Sprintf("%s dropped_frames=%d queue_dropped=%d queue_len=%d\n",
				time.Now().Format(time.RFC3339), rxPipeline.Dropped(), queue.Dropped(), queue.Len())

			_ = logFile.Write(line)
		}
	}
}

// monitorTap forwards every RX sample batch to the UDP sample monitor
// before returning it unchanged, the --udpdump tap point on the pre-decode
// soft-symbol stream.
type monitorTap struct {
	monitor *ryfi.SampleMonitor
}

func (t *monitorTap) Apply(in []float64) []float64 {
	t.monitor.SendSamples(in)

	return in
}
