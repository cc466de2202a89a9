// Tournament Loop
//
// Copyright (c) 2023  Philip Kaludercic
//
// This file is part of go-sandpit.
//
// go-sandpit is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License,
// version 3, as published by the Free Software Foundation.
//
// go-sandpit is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public
// License, version 3, along with go-sandpit. If not, see
// <http://www.gnu.org/licenses/>

package sched

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"go-sandpit"
	"go-sandpit/conf"
	"go-sandpit/game"
	"go-sandpit/sched/isol"
)

// Loop runs contests between registered players until it is shut
// down.
type Loop struct {
	*Registry
	conf *conf.Conf
	rng  *rand.Rand
	shut chan struct{}
	wait sync.WaitGroup
}

func (*Loop) String() string { return "Tournament" }

func MakeLoop(config *conf.Conf) *Loop {
	return &Loop{
		Registry: MakeRegistry(),
		conf:     config,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		shut:     make(chan struct{}),
	}
}

// Restore all players from the database
func (l *Loop) restore(ctx context.Context) {
	if l.conf.DB == nil {
		return
	}

	players, err := l.conf.DB.Players(ctx)
	if err != nil {
		sandpit.Log.WithError(err).Error("Failed to load players")
		return
	}
	for _, p := range players {
		log := sandpit.Log.WithFields(logrus.Fields{
			"player":    p.Name,
			"syndicate": p.Syndicate,
		})

		p.Logic, err = isol.Load(p.Source)
		if err != nil {
			log.WithError(err).Warn("Cannot load stored player")
			continue
		}
		if err = l.Add(p); err != nil {
			log.WithError(err).Warn("Cannot restore player")
			continue
		}
		log.Info("Restored player")
	}
}

func (l *Loop) Start() {
	l.wait.Add(1)
	defer l.wait.Done()

	ctx := l.conf.Ctx
	l.restore(ctx)
	for {
		wait := l.Step(ctx)

		select {
		case <-l.shut:
			return
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

func (l *Loop) Shutdown() {
	close(l.shut)
	l.wait.Wait()
}

func instance(p *sandpit.Player) (sandpit.Decider, error) {
	d, err := p.Logic.Instance()
	if err != nil {
		var exec *sandpit.ExecutionError
		if !errors.As(err, &exec) {
			err = &sandpit.ExecutionError{Msg: err.Error()}
		}
		return nil, err
	}
	return d, nil
}

func release(d sandpit.Decider) {
	if c, ok := d.(io.Closer); ok {
		if err := c.Close(); err != nil {
			sandpit.Debug.WithError(err).Debug("Failed to release player")
		}
	}
}

// Step runs a single iteration of the tournament, and returns how
// long to wait until the next one.
func (l *Loop) Step(ctx context.Context) (wait time.Duration) {
	defer func() {
		if err := recover(); err != nil {
			sandpit.Log.Errorf("Contest failed: %v", err)
			wait = l.conf.Pause
		}
	}()

	m, ok := l.Next()
	if !ok {
		return l.conf.Idle
	}

	log := sandpit.Log.WithFields(logrus.Fields{
		"player1":  m.P1.Key,
		"victory1": m.TypeA,
		"player2":  m.P2.Key,
		"victory2": m.TypeB,
	})
	log.Info("Starting contest")

	d1, err := instance(&m.P1)
	if err != nil {
		l.evict(ctx, &m.P1, m.TypeA, err.Error())
		return l.conf.Pause
	}
	defer release(d1)
	d2, err := instance(&m.P2)
	if err != nil {
		l.evict(ctx, &m.P2, m.TypeB, err.Error())
		return l.conf.Pause
	}
	defer release(d2)

	c := game.Setup(l.rng, l.conf.Columns,
		m.P1.String(), m.P2.String(),
		m.TypeA, m.TypeB, false)
	switch res := game.Play(ctx, l.conf, c, d1, d2).(type) {
	case *sandpit.Failure:
		if res.Side == sandpit.Side1 {
			l.evict(ctx, &m.P1, m.TypeA, res.Reason)
		} else {
			l.evict(ctx, &m.P2, m.TypeB, res.Reason)
		}
	case *sandpit.Outcome:
		log.WithField("winner", res.Winner).Info("Finished contest")
		if !l.Record(m.Pairing, res.Winner) {
			log.Debug("Discarding result of removed player")
			break
		}
		if l.conf.DB != nil {
			if err := l.conf.DB.SaveGame(ctx, res); err != nil {
				log.WithError(err).Error("Failed to save game")
			}
		}
		if l.conf.Web != nil {
			l.conf.Web.Update()
		}
	}

	return l.conf.Pause
}

// evict P from the tournament
func (l *Loop) evict(ctx context.Context, p *sandpit.Player, vt sandpit.VictoryType, reason string) {
	log := sandpit.Log.WithFields(logrus.Fields{
		"player":    p.Name,
		"syndicate": p.Syndicate,
		"victory":   vt,
	})
	log.WithField("reason", reason).Warn("Evicting player")

	if _, err := l.Remove(p.Key); err != nil {
		log.WithError(err).Debug("Player already removed")
	}
	if l.conf.DB == nil {
		return
	}
	if err := l.conf.DB.DeletePlayer(ctx, p.Key); err != nil {
		log.WithError(err).Error("Failed to delete player")
	}
	err := l.conf.DB.SaveEviction(ctx, &sandpit.Eviction{
		Key:     p.Key,
		Victory: vt,
		Reason:  reason,
		Stamp:   time.Now(),
	})
	if err != nil {
		log.WithError(err).Error("Failed to log eviction")
	}
}
