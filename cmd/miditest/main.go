package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	var err error
	switch os.Args[1] {
	case "list":
		listPorts()
	case "poll":
		pollDevices()
	case "cc":
		err = sendCC(os.Args[2:])
	case "pc":
		err = sendPC(os.Args[2:])
	case "listen":
		err = listen(os.Args[2:])
	default:
		usage()
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list                          - List all MIDI ports")
	fmt.Println("  poll                          - Poll for device changes")
	fmt.Println("  cc <port> <ch> <cc> <value>   - Send one control change (ch 1-16)")
	fmt.Println("  pc <port> <ch> <program>      - Send one program change (ch 1-16)")
	fmt.Println("  listen <port>                 - Print everything arriving on an input")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	type result struct {
		ins  []drivers.In
		outs []drivers.Out
	}
	ch := make(chan result, 1)
	go func() {
		ch <- result{ins: midi.GetInPorts(), outs: midi.GetOutPorts()}
	}()

	select {
	case r := <-ch:
		for i, p := range r.ins {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
		fmt.Println("\n=== MIDI Output Ports ===")
		for i, p := range r.outs {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! The MIDI driver is hung.")
	}
}

func pollDevices() {
	fmt.Println("Polling for device changes every 2 seconds...")
	fmt.Println("Connect/disconnect a pedal interface to test. Ctrl+C to exit.")

	lastIn := ""
	lastOut := ""

	for {
		inNames := lo.Map(midi.GetInPorts(), func(p drivers.In, _ int) string { return p.String() })
		outNames := lo.Map(midi.GetOutPorts(), func(p drivers.Out, _ int) string { return p.String() })

		currentIn := strings.Join(inNames, ",")
		currentOut := strings.Join(outNames, ",")

		if currentIn != lastIn || currentOut != lastOut {
			fmt.Printf("\n[%s] Device change detected!\n", time.Now().Format("15:04:05"))
			fmt.Printf("  Inputs: %v\n", inNames)
			fmt.Printf("  Outputs: %v\n", outNames)

			lastIn = currentIn
			lastOut = currentOut
		}

		time.Sleep(2 * time.Second)
	}
}

// parseArgs reads integers, each within [floor[i], ceil[i]]
func parseArgs(args []string, floor, ceil []int) ([]uint8, error) {
	if len(args) != len(floor) {
		return nil, fmt.Errorf("want %d numbers, got %d", len(floor), len(args))
	}
	out := make([]uint8, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		if n < floor[i] || n > ceil[i] {
			return nil, fmt.Errorf("argument %d: %d out of range %d-%d", i+1, n, floor[i], ceil[i])
		}
		out[i] = uint8(n)
	}
	return out, nil
}

func openOut(name string) (func(midi.Message) error, error) {
	port, err := midi.FindOutPort(name)
	if err != nil {
		return nil, fmt.Errorf("find port %q: %w", name, err)
	}
	fmt.Printf("Using output: %s\n", port.String())
	return midi.SendTo(port)
}

func sendCC(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("missing port")
	}
	nums, err := parseArgs(args[1:], []int{1, 0, 0}, []int{16, 127, 127})
	if err != nil {
		return err
	}
	send, err := openOut(args[0])
	if err != nil {
		return err
	}
	msg := midi.ControlChange(nums[0]-1, nums[1], nums[2])
	fmt.Printf("Sending: %s\n", msg)
	return send(msg)
}

func sendPC(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("missing port")
	}
	nums, err := parseArgs(args[1:], []int{1, 0}, []int{16, 127})
	if err != nil {
		return err
	}
	send, err := openOut(args[0])
	if err != nil {
		return err
	}
	msg := midi.ProgramChange(nums[0]-1, nums[1])
	fmt.Printf("Sending: %s\n", msg)
	return send(msg)
}

func listen(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("missing port")
	}
	port, err := midi.FindInPort(args[0])
	if err != nil {
		return fmt.Errorf("find port %q: %w", args[0], err)
	}

	stop, err := midi.ListenTo(port, func(msg midi.Message, timestampms int32) {
		fmt.Printf("[%8dms] %s\n", timestampms, msg)
	})
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer stop()

	fmt.Printf("Listening on %s. Ctrl+C to exit.\n", port.String())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig
	return nil
}
