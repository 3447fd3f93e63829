package domain

import "github.com/google/uuid"

type SchoolID = uuid.UUID
type UserID = uuid.UUID
type HousingID = uuid.UUID
type ReviewID = uuid.UUID
