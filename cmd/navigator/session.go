package main

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/paulmach/orb"

	"kuanb/gosm-navigator/navigation"
	"kuanb/gosm-navigator/osm"
	"kuanb/gosm-navigator/speech"
)

// session is one vehicle following a matched route.
type session struct {
	mu    sync.Mutex
	id    string
	nav   *navigation.Navigation
	refs  []osm.WayRef
	index int // route position the vehicle was last located at
	said  *speech.Log
}

// sessionStore keeps the most recently used sessions; the oldest are evicted
// once the cache is full.
type sessionStore struct {
	cache *lru.Cache[string, *session]
}

func newSessionStore(size int) (*sessionStore, error) {
	cache, err := lru.New[string, *session](size)
	if err != nil {
		return nil, fmt.Errorf("session cache: %w", err)
	}
	return &sessionStore{cache: cache}, nil
}

func (s *sessionStore) add(nav *navigation.Navigation, refs []osm.WayRef, said *speech.Log) *session {
	sess := &session{id: uuid.NewString(), nav: nav, refs: refs, said: said}
	s.cache.Add(sess.id, sess)
	return sess
}

func (s *sessionStore) get(id string) (*session, bool) {
	return s.cache.Get(id)
}

func (s *sessionStore) remove(id string) bool {
	return s.cache.Remove(id)
}

func (s *sessionStore) len() int {
	return s.cache.Len()
}

// advance moves the session to pos and feeds navigation the remaining route.
// A position on the route's current segment only refreshes the head.
func (sess *session) advance(g *osm.OsmGraph, pos orb.Point) error {
	idx := g.Locate(pos, sess.refs, sess.index)
	if idx < 0 {
		return fmt.Errorf("locate %v: %w", pos, osm.ErrDisconnected)
	}
	sess.index = idx
	segs, err := g.SegmentsFrom(pos, sess.refs[idx:])
	if err != nil {
		return fmt.Errorf("route from %v: %w", pos, err)
	}
	sess.nav.UpdateRoute(navigation.RouteUpdate{
		Status:   navigation.StatusPathDoneIncremental,
		Segments: segs,
	})
	return nil
}
