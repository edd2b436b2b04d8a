package services

import (
	"context"
	"fmt"
	"sort"

	"canistertransfer/internal/core/domain/model/canister"
	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/model/transfer"
)

// CSRLocation is a free shelf position offered by the CSR recommender.
type CSRLocation struct {
	Device      kernel.DeviceID
	Location    kernel.LocationID
	DrawerLevel kernel.DrawerLevel
}

// CSRRecommender picks a CSR location for a canister. Locations in reserved
// must not be returned. A nil location means CSR has no room.
type CSRRecommender interface {
	RecommendCSRLocation(
		ctx context.Context,
		system kernel.SystemID,
		canisterID kernel.CanisterID,
		canisterType kernel.CanisterType,
		reserved []kernel.LocationID,
	) (*CSRLocation, error)
}

// CSROverflow resolves CSR candidates into placements.
type CSROverflow struct {
	recommender CSRRecommender
}

// NewCSROverflow creates the overflow stage over recommender.
func NewCSROverflow(recommender CSRRecommender) CSROverflow {
	return CSROverflow{recommender: recommender}
}

// Assign asks the recommender for a location for each candidate, Big canisters
// first and then by canister id. A canister that already has a destination is
// skipped; one the recommender cannot place becomes unassigned.
func (o CSROverflow) Assign(
	ctx context.Context,
	actx *AllocationContext,
	system kernel.SystemID,
	alloc Allocation,
) (Allocation, error) {
	candidates := make([]CSRCandidate, len(alloc.CSR))
	copy(candidates, alloc.CSR)
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i].Demand, candidates[j].Demand
		if a.CanisterType() != b.CanisterType() {
			return a.CanisterType() == kernel.Big
		}
		return a.CanisterID() < b.CanisterID()
	})

	placed := alloc.Canisters()
	alloc.CSR = nil

	for _, c := range candidates {
		id := c.Demand.CanisterID()
		if _, done := placed[id]; done {
			continue
		}

		loc, err := o.recommender.RecommendCSRLocation(ctx, system, id, c.Demand.CanisterType(), actx.ReservedCSR())
		if err != nil {
			return Allocation{}, fmt.Errorf("recommend csr location for canister %d: %w", id, err)
		}
		if loc == nil || !actx.ReserveCSR(loc.Location) {
			alloc.Unassigned = append(alloc.Unassigned, c.Demand)
			continue
		}

		placed[id] = struct{}{}
		alloc.Placements = append(alloc.Placements, Placement{
			Demand:      c.Demand,
			Destination: csrDestination(actx.Policy, c.Demand.Source(), loc),
		})
	}

	return alloc, nil
}

func csrDestination(p Policy, source canister.Placement, loc *CSRLocation) transfer.Destination {
	return transfer.Destination{
		Device:      loc.Device,
		Kind:        kernel.CSR,
		Quadrant:    kernel.NoQuadrant,
		Location:    loc.Location,
		DrawerLevel: loc.DrawerLevel,
		Class:       trolleyClass(p, source, kernel.CSR, loc.DrawerLevel),
	}
}
