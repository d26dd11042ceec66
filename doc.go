/*
Package algoviz is a stepwise algorithm execution engine for teaching classic
sorting and pathfinding algorithms.

It runs bubble, quick, merge and heap sort over an integer sequence and Dijkstra,
A*, breadth-first and depth-first search over an obstacle grid as an interruptible
sequence of observable steps. After every atomic operation (a comparison, a swap,
a visited cell) the engine hands a StepEvent to its observers, waits while the run
is paused and sleeps for the configured delay, so a renderer can animate the run
and a user can pause, resume or reset it at any time.

# Concept

The Engine owns exactly one run at a time, shared by both modes. Subjects (the
sequence and the grid) come from a Generator and may be kept in a SubjectStore so
that they survive restarts. Observers attach through lifecycle hooks, which also
feed the Prometheus metrics and the event stream served by the HTTP adapter.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/algoviz"
		"github.com/aretw0/algoviz/pkg/controller"
		"github.com/aretw0/algoviz/pkg/domain"
	)

	func main() {
		eng, err := algoviz.New()
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		if err := eng.Prepare(ctx); err != nil {
			log.Fatal(err)
		}

		res, err := eng.Run(ctx, controller.Params{
			Mode:      domain.ModeSorting,
			Algorithm: domain.AlgorithmQuick,
			Speed:     10,
		})
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(res.Comparisons, res.Swaps)
	}
*/
package algoviz
