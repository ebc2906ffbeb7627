/*
 *
 * Copyright 2026 The inputwire Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

// wireping measures publish -> consume -> finish round-trip latency over a
// transport channel pair, with the consumer driven by a minimal poll loop
// standing in for a real readiness waiter.
package main

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/inputwire/inputwire/event"
	"github.com/inputwire/inputwire/internal/logging"
	"github.com/inputwire/inputwire/transport"
)

type config struct {
	Iterations    int    `envconfig:"ITERATIONS" default:"10000"`
	AppendSamples int    `envconfig:"APPEND_SAMPLES" default:"2"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	LogDev        bool   `envconfig:"LOG_DEV" default:"true"`
}

func main() {
	var cfg config
	if err := envconfig.Process("wireping", &cfg); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, Development: cfg.LogDev})
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	name := "wireping-" + uuid.NewString()
	server, client, err := transport.OpenPair(name)
	if err != nil {
		logger.Fatal("failed to open channel pair", zap.Error(err))
	}
	defer server.Close()
	defer client.Close()

	pub := transport.NewPublisher(server, nil)
	if err := pub.Initialize(); err != nil {
		logger.Fatal("failed to initialize publisher", zap.Error(err))
	}
	con := transport.NewConsumer(client, nil)
	if err := con.Initialize(); err != nil {
		logger.Fatal("failed to initialize consumer", zap.Error(err))
	}

	logger.Info("channel pair open",
		zap.String("name", name),
		zap.Int("iterations", cfg.Iterations))

	done := make(chan struct{})
	go consumeLoop(con, cfg.Iterations, logger, done)

	start := time.Now()
	for i := 0; i < cfg.Iterations; i++ {
		if err := publishOne(pub, i, cfg.AppendSamples); err != nil {
			logger.Fatal("publish failed", zap.Int("iteration", i), zap.Error(err))
		}
		// Wait for the acknowledgement before resetting the slot.
		awaitReadable(server.SignalReadFd())
		handled, err := pub.ReceiveFinishedSignal()
		if err != nil {
			logger.Fatal("finished signal failed", zap.Int("iteration", i), zap.Error(err))
		}
		if !handled {
			logger.Warn("event reported unhandled", zap.Int("iteration", i))
		}
		pub.Reset()
	}
	elapsed := time.Since(start)
	<-done

	fmt.Printf("=== wireping ===\n")
	fmt.Printf("iterations:      %d\n", cfg.Iterations)
	fmt.Printf("total time:      %v\n", elapsed)
	fmt.Printf("round trip mean: %v\n", elapsed/time.Duration(cfg.Iterations))
}

// publishOne alternates key and motion events; motion events get extra
// samples appended after the dispatch signal to exercise in-place updates.
func publishOne(pub *transport.Publisher, i, appendSamples int) error {
	now := time.Now().UnixNano()
	if i%2 == 0 {
		if err := pub.PublishKeyEvent(1, event.SourceKeyboard, event.KeyActionDown,
			0, int32(30+i%10), 0, 0, 0, now, now); err != nil {
			return err
		}
		return pub.SendDispatchSignal()
	}

	ids := []int32{0}
	coords := []event.PointerCoords{{X: float32(i), Y: float32(i), Pressure: 1}}
	if err := pub.PublishMotionEvent(1, event.SourceTouchscreen, event.MotionActionMove,
		0, 0, event.EdgeNone, 0, 0, 1, 1, now, now, ids, coords); err != nil {
		return err
	}
	if err := pub.SendDispatchSignal(); err != nil {
		return err
	}
	for s := 0; s < appendSamples; s++ {
		coords[0].X += 1
		coords[0].Y += 1
		err := pub.AppendMotionSample(time.Now().UnixNano(), coords)
		if err == nil {
			continue
		}
		// The consumer may have raced ahead; both outcomes are normal.
		if isFlowControl(err) {
			break
		}
		return err
	}
	return nil
}

func isFlowControl(err error) bool {
	return errors.Is(err, transport.ErrAlreadyConsumed) || errors.Is(err, transport.ErrNoSpace)
}

func consumeLoop(con *transport.Consumer, iterations int, logger *zap.Logger, done chan<- struct{}) {
	defer close(done)
	factory := event.HeapFactory{}
	for i := 0; i < iterations; i++ {
		awaitReadable(con.Channel().SignalReadFd())
		if err := con.ReceiveDispatchSignal(); err != nil {
			logger.Fatal("dispatch signal failed", zap.Int("iteration", i), zap.Error(err))
		}
		ev, err := con.Consume(factory)
		if err != nil {
			logger.Fatal("consume failed", zap.Int("iteration", i), zap.Error(err))
		}
		if err := con.SendFinishedSignal(ev != nil); err != nil {
			logger.Fatal("finished signal failed", zap.Int("iteration", i), zap.Error(err))
		}
	}
}

// awaitReadable blocks until fd is readable, retrying interrupted polls.
// This is the stand-in for the readiness waiter the transport assumes.
func awaitReadable(fd int) {
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	for {
		n, err := unix.Poll(fds, -1)
		if err == unix.EINTR {
			continue
		}
		if err != nil || n == 0 {
			continue
		}
		return
	}
}
