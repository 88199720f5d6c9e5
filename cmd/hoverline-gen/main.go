package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"time"
)

func main() {
	series := flag.Int("series", 3, "number of data series to emit")
	interval := flag.Duration("interval", 100*time.Millisecond, "delay between rows")
	count := flag.Int("count", 0, "number of rows to emit, 0 for no limit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags]\n", os.Args[0])
		fmt.Fprintf(flag.CommandLine.Output(), "\nEmit a synthetic CSV trace on stdout, suitable for piping into\nhoverline or appending to a file viewed with -follow.\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if *series < 1 {
		log.Fatalf("invalid -series %d, need at least one", *series)
	}

	fmt.Printf("timestamp_ns")
	for i := 0; i < *series; i++ {
		fmt.Printf(", series %d", i+1)
	}
	fmt.Println()

	phases := make([]float64, *series)
	for i := range phases {
		phases[i] = rand.Float64() * 2 * math.Pi
	}
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	emitted := 0
	for t := range ticker.C {
		secs := float64(t.UnixNano()) / float64(time.Second)
		fmt.Printf("%d", t.UnixNano())
		for i := 0; i < *series; i++ {
			v := 10 + 5*math.Sin(secs/float64(i+1)+phases[i]) + rand.Float64()
			fmt.Printf(", %f", v)
		}
		fmt.Println()
		emitted++
		if *count > 0 && emitted >= *count {
			return
		}
	}
}
