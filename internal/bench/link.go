/*
 *
 * Copyright 2025 gRPC authors.
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

package bench

import (
	"errors"
	"fmt"

	"github.com/markrussinovich/shm-rtlatency/internal/shm"
)

// Link is one process's view of the two event segments. Send and Recv are
// oriented for the role that built the Link.
type Link struct {
	Send *shm.Event
	Recv *shm.Event

	segments []*shm.Segment
}

// CreateLink creates both segments and initializes a fresh event in each.
// It is the controller's half of setup and must happen before the responder
// starts.
func CreateLink(cfg Config) (*Link, error) {
	req, err := shm.CreateSegment(cfg.RequestSegment, cfg.SegmentSize)
	if err != nil {
		return nil, err
	}
	rep, err := shm.CreateSegment(cfg.ReplySegment, cfg.SegmentSize)
	if err != nil {
		req.Close()
		return nil, err
	}
	l := &Link{segments: []*shm.Segment{req, rep}}

	if l.Send, _, err = shm.NewEvent(req.Mem, false); err != nil {
		l.Close()
		return nil, fmt.Errorf("request channel: %w", err)
	}
	if l.Recv, _, err = shm.NewEvent(rep.Mem, false); err != nil {
		l.Close()
		return nil, fmt.Errorf("reply channel: %w", err)
	}
	return l, nil
}

// OpenLink maps both segments created by the controller and attaches to
// their events without resetting them.
func OpenLink(cfg Config) (*Link, error) {
	req, err := shm.OpenSegment(cfg.RequestSegment, cfg.SegmentSize)
	if err != nil {
		return nil, err
	}
	rep, err := shm.OpenSegment(cfg.ReplySegment, cfg.SegmentSize)
	if err != nil {
		req.Close()
		return nil, err
	}
	l := &Link{segments: []*shm.Segment{req, rep}}

	if l.Send, _, err = shm.EventFromExisting(rep.Mem); err != nil {
		l.Close()
		return nil, fmt.Errorf("reply channel: %w", err)
	}
	if l.Recv, _, err = shm.EventFromExisting(req.Mem); err != nil {
		l.Close()
		return nil, fmt.Errorf("request channel: %w", err)
	}
	return l, nil
}

// Close unmaps both segments; for the controller this also unlinks them.
func (l *Link) Close() error {
	var errs []error
	for _, seg := range l.segments {
		if err := seg.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", seg.Name, err))
		}
	}
	l.segments = nil
	return errors.Join(errs...)
}
