// Command healthcheck probes a running receiptsd over HTTP and, when an
// address is given, gRPC. It exits non-zero on the first failing probe.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	var (
		httpURL  = flag.String("http", "http://127.0.0.1:8080/healthz", "HTTP health endpoint")
		grpcAddr = flag.String("grpc", os.Getenv("GRPC_ADDR"), "gRPC address (optional)")
		timeout  = flag.Duration("timeout", 2*time.Second, "per-probe timeout")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := probeHTTP(ctx, *httpURL); err != nil {
		fmt.Fprintf(os.Stderr, "HTTP health: FAIL (%v)\n", err)
		os.Exit(1)
	}
	fmt.Println("HTTP health: OK")

	if *grpcAddr == "" {
		return
	}
	if err := probeGRPC(ctx, *grpcAddr); err != nil {
		fmt.Fprintf(os.Stderr, "gRPC health: FAIL (%v)\n", err)
		os.Exit(1)
	}
	fmt.Println("gRPC health: OK")
}

func probeHTTP(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}

func probeGRPC(ctx context.Context, addr string) error {
	if strings.HasPrefix(addr, ":") {
		addr = "127.0.0.1" + addr
	}
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return err
	}
	defer conn.Close()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return err
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("status %s", resp.GetStatus())
	}
	return nil
}
