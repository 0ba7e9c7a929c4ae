// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package authz defines the authorization collaborator consumed by the
// store layer. The store only records ownership; deciding who may delete
// what belongs to the policy.
package authz

import "github.com/google/uuid"

// Policy answers ownership questions. Implementations may call out to an
// external service; an error means the provider was unreachable, not that
// access was denied.
type Policy interface {
	CanDelete(requesterID, ownerID uuid.UUID) (bool, error)
}

// OwnerPolicy allows a resource to be deleted only by its owner.
type OwnerPolicy struct{}

func (OwnerPolicy) CanDelete(requesterID, ownerID uuid.UUID) (bool, error) {
	return requesterID == ownerID, nil
}
