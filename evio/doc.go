// Package evio implements the structure codec: parsing an event's nested
// banks, segments, and tag-segments into a flat node arena, and swapping
// an event's byte order in place.
package evio
