package model

import "time"

// ExamLocation represents a physical venue offered for one offline
// exam, as stored in the `exam_locations` table.  FilledSeats tracks
// occupancy and is bounded by TotalSeats; SeatSequence only ever grows
// and is the source of assigned seat numbers, so a seat number is never
// reissued even after an earlier registration releases its seat.
//
// Fields:
//  ID           – primary key identifier.
//  ExamID       – exam this venue belongs to.
//  Name         – venue name, unique within the exam.
//  TotalSeats   – capacity of the venue.
//  FilledSeats  – currently occupied seats (0 <= FilledSeats <= TotalSeats).
//  SeatSequence – monotone counter used to number assigned seats.
//  CreatedAt    – timestamp of creation.
type ExamLocation struct {
    ID           uint64    // exam_locations.id
    ExamID       uint64    // exam_locations.exam_id
    Name         string    // exam_locations.name
    TotalSeats   uint32    // exam_locations.total_seats
    FilledSeats  uint32    // exam_locations.filled_seats
    SeatSequence uint32    // exam_locations.seat_sequence
    CreatedAt    time.Time // exam_locations.created_at
}

// HasSpace reports whether the venue can take one more registrant.
func (l ExamLocation) HasSpace() bool {
    return l.FilledSeats < l.TotalSeats
}
