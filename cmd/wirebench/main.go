// wirebench measures the structural decoder offline: it synthesizes (or
// loads) one packet and decodes it in a loop across workers, reporting
// throughput and latency percentiles.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/miekg/dns"

	"github.com/jroosing/dnslens/internal/wire"
)

func main() {
	var (
		file        = flag.String("file", "", "Read the packet from this file instead of synthesizing one")
		name        = flag.String("name", "www.example.com", "Query name for the synthesized response")
		answers     = flag.Int("answers", 4, "Answer records in the synthesized response")
		iterations  = flag.Int("iterations", 1_000_000, "Total decode iterations")
		concurrency = flag.Int("concurrency", 1, "Number of worker goroutines")
	)
	flag.Parse()

	packet, err := loadPacket(*file, *name, *answers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wirebench error: %v\n", err)
		os.Exit(1)
	}

	s := wire.Decode(packet)
	fmt.Printf("packet: %d bytes, status=%s, %s\n", len(packet), s.Status, s.Header)

	conc := max(*concurrency, 1)
	total := max(*iterations, 1)
	per := total / conc
	rem := total % conc

	lat := make([]float64, 0, total)
	var latMu sync.Mutex

	t0 := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < conc; i++ {
		n := per
		if i < rem {
			n++
		}
		if n <= 0 {
			continue
		}
		wg.Add(1)
		go func(num int) {
			defer wg.Done()
			local := make([]float64, 0, num)
			for j := 0; j < num; j++ {
				start := time.Now()
				_ = wire.Decode(packet)
				local = append(local, float64(time.Since(start).Nanoseconds()))
			}
			latMu.Lock()
			lat = append(lat, local...)
			latMu.Unlock()
		}(n)
	}
	wg.Wait()
	elapsed := time.Since(t0).Seconds()

	sort.Float64s(lat)
	fmt.Printf("iterations=%d concurrency=%d elapsed_s=%.3f rate=%.0f/s\n",
		len(lat), conc, elapsed, float64(len(lat))/elapsed)
	fmt.Printf("latency_ns p50=%.0f p95=%.0f p99=%.0f min=%.0f max=%.0f\n",
		percentile(lat, 50), percentile(lat, 95), percentile(lat, 99), lat[0], lat[len(lat)-1])
}

// loadPacket reads a raw packet from disk or builds a compressed response
// with the requested number of answers.
func loadPacket(file, name string, answers int) ([]byte, error) {
	if file != "" {
		return os.ReadFile(file)
	}

	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), dns.TypeA)
	m.Response = true
	m.Compress = true
	for i := 0; i < answers; i++ {
		rr, err := dns.NewRR(fmt.Sprintf("%s 300 IN A 192.0.2.%d", dns.Fqdn(name), i+1))
		if err != nil {
			return nil, err
		}
		m.Answer = append(m.Answer, rr)
	}
	return m.Pack()
}

func percentile(sorted []float64, p int) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	idx := int(float64(len(sorted))*float64(p)/100.0) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
