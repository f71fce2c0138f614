package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/markrussinovich/shm-rtlatency/internal/shm"
)

func main() {
	var rounds int
	cmd := &cobra.Command{
		Use:   "event-probe",
		Short: "Ping-pong two shared-memory events in one process and report round trips",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			probe(rounds)
		},
	}
	cmd.Flags().IntVar(&rounds, "rounds", 10000, "number of round trips")
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func probe(rounds int) {
	if runtime.GOOS != "linux" {
		fmt.Println("Skipping on non-Linux platform")
		return
	}

	// Private names so the probe never collides with a benchmark run
	ping := fmt.Sprintf("probe-ping-%d", os.Getpid())
	pong := fmt.Sprintf("probe-pong-%d", os.Getpid())

	pingSeg, err := shm.CreateSegment(ping, shm.DefaultSegmentSize)
	if err != nil {
		log.Fatalf("Failed to create segment: %v", err)
	}
	defer pingSeg.Close()
	pongSeg, err := shm.CreateSegment(pong, shm.DefaultSegmentSize)
	if err != nil {
		log.Fatalf("Failed to create segment: %v", err)
	}
	defer pongSeg.Close()

	pingEv, hdrSize, err := shm.NewEvent(pingSeg.Mem, false)
	if err != nil {
		log.Fatalf("Failed to init event: %v", err)
	}
	pongEv, _, err := shm.NewEvent(pongSeg.Mem, false)
	if err != nil {
		log.Fatalf("Failed to init event: %v", err)
	}

	fmt.Printf("=== Event Layout ===\n")
	fmt.Printf("Segment size: %d bytes\n", pingSeg.Size())
	fmt.Printf("Event header: %d bytes\n", hdrSize)
	fmt.Printf("Backing file: %s\n", pingSeg.Path)

	// Attach a second view the way the responder does
	peerSeg, err := shm.OpenSegment(ping, shm.DefaultSegmentSize)
	if err != nil {
		log.Fatalf("Failed to open segment: %v", err)
	}
	defer peerSeg.Close()
	peerEv, _, err := shm.EventFromExisting(peerSeg.Mem)
	if err != nil {
		log.Fatalf("Failed to attach event: %v", err)
	}

	fmt.Printf("\n=== Poll Test ===\n")
	if err := checkVisibility(pingEv, peerEv); err != nil {
		log.Fatalf("Poll test failed: %v", err)
	}
	fmt.Printf("Unsignaled poll: timeout (ok)\n")
	fmt.Printf("Signal through second mapping: ok, state now %v\n", pingEv.State())

	fmt.Printf("\n=== Ping-Pong Test (%d rounds) ===\n", rounds)
	var g errgroup.Group
	g.Go(func() error {
		runtime.LockOSThread()
		for i := 0; i < rounds; i++ {
			if err := peerEv.Wait(shm.Infinite); err != nil {
				return err
			}
			if err := pongEv.Set(shm.Signaled); err != nil {
				return err
			}
		}
		return nil
	})

	runtime.LockOSThread()
	var minRT, maxRT, total time.Duration
	for i := 0; i < rounds; i++ {
		start := time.Now()
		if err := pingEv.Set(shm.Signaled); err != nil {
			log.Fatalf("Set failed at round %d: %v", i, err)
		}
		if err := pongEv.Wait(time.Second); err != nil {
			log.Fatalf("No reply at round %d: %v", i, err)
		}
		rt := time.Since(start)
		total += rt
		if i == 0 || rt < minRT {
			minRT = rt
		}
		if rt > maxRT {
			maxRT = rt
		}
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("Responder side failed: %v", err)
	}

	if rounds > 0 {
		fmt.Printf("min %v avg %v max %v\n", minRT, total/time.Duration(rounds), maxRT)
	}
}

// checkVisibility polls an unsignaled event, then signals it through owner
// and consumes the signal through peer, a second mapping of the same word.
func checkVisibility(owner, peer *shm.Event) error {
	if err := owner.Wait(0); !errors.Is(err, shm.ErrTimeout) {
		return fmt.Errorf("unsignaled event did not time out: %v", err)
	}
	if err := owner.Set(shm.Signaled); err != nil {
		return fmt.Errorf("set: %w", err)
	}
	if err := peer.Wait(0); err != nil {
		return fmt.Errorf("signal not visible through second mapping: %w", err)
	}
	return nil
}
