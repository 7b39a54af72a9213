// Package dna encodes creature traits as fixed-length digit strings and
// provides the genetic operators used during mating.
package dna

import (
	"errors"
	"fmt"
	"math"
)

// Length is the number of symbols in every creature's DNA.
const Length = 17

// Field layout within a DNA string.
const (
	sizeOffset   = 0
	sizeWidth    = 2
	redOffset    = 2
	greenOffset  = 5
	blueOffset   = 8
	channelWidth = 3
	alphaOffset  = 11
	alphaWidth   = 2
	velXOffset   = 13
	velYOffset   = 15
	velWidth     = 2
)

// Gene names one field of the DNA layout.
type Gene struct {
	Name   string
	Offset int
	Width  int
}

// Genes lists the DNA fields in layout order. Together they cover every
// symbol exactly once.
var Genes = []Gene{
	{Name: "size", Offset: sizeOffset, Width: sizeWidth},
	{Name: "red", Offset: redOffset, Width: channelWidth},
	{Name: "green", Offset: greenOffset, Width: channelWidth},
	{Name: "blue", Offset: blueOffset, Width: channelWidth},
	{Name: "alpha", Offset: alphaOffset, Width: alphaWidth},
	{Name: "vel_x", Offset: velXOffset, Width: velWidth},
	{Name: "vel_y", Offset: velYOffset, Width: velWidth},
}

// Digits returns the symbols of d that encode g.
func (g Gene) Digits(d DNA) string {
	if g.Offset+g.Width > len(d) {
		return ""
	}
	return string(d[g.Offset : g.Offset+g.Width])
}

// Decoding constants.
const (
	channelRange = 1000.0 // raw 3-digit channel range
	channelScale = 256.0
	alphaDivisor = 120.0
	MinAlpha     = 0.1
	velCenter    = 50.0
	velDivisor   = 25.0
)

// ErrInvalidDNA is returned when a DNA string has the wrong shape.
var ErrInvalidDNA = errors.New("invalid dna")

// DNA is a fixed-length string of decimal digits.
type DNA string

// Vector is a 2-D pair of coordinates.
type Vector struct {
	X, Y float64
}

// Color is an RGBA color. Alpha is never below MinAlpha.
type Color struct {
	R, G, B uint8
	A       float64
}

// Phenotype holds the traits decoded from DNA.
type Phenotype struct {
	Size     int
	Color    Color
	Velocity Vector
}

// Validate checks that d has exactly length symbols, all decimal digits.
func Validate(d DNA, length int) error {
	if len(d) != length {
		return fmt.Errorf("%w: length %d, want %d", ErrInvalidDNA, len(d), length)
	}
	for i := 0; i < len(d); i++ {
		if d[i] < '0' || d[i] > '9' {
			return fmt.Errorf("%w: symbol %q at index %d is not a digit", ErrInvalidDNA, d[i], i)
		}
	}
	return nil
}

// Decode derives the phenotype of d. It fails instead of decoding partial
// fields when d is not a Length-digit string.
func Decode(d DNA) (Phenotype, error) {
	if err := Validate(d, Length); err != nil {
		return Phenotype{}, err
	}

	return Phenotype{
		Size: field(d, sizeOffset, sizeWidth),
		Color: Color{
			R: channel(field(d, redOffset, channelWidth)),
			G: channel(field(d, greenOffset, channelWidth)),
			B: channel(field(d, blueOffset, channelWidth)),
			A: math.Max(MinAlpha, float64(field(d, alphaOffset, alphaWidth))/alphaDivisor),
		},
		Velocity: Vector{
			X: velocity(field(d, velXOffset, velWidth)),
			Y: velocity(field(d, velYOffset, velWidth)),
		},
	}, nil
}

// MustDecode is like Decode but panics on invalid DNA.
func MustDecode(d DNA) Phenotype {
	p, err := Decode(d)
	if err != nil {
		panic(fmt.Sprintf("dna: %v", err))
	}
	return p
}

// field parses width digits starting at offset. Digits are already validated.
func field(d DNA, offset, width int) int {
	v := 0
	for i := offset; i < offset+width; i++ {
		v = v*10 + int(d[i]-'0')
	}
	return v
}

// channel rescales a [0,999] value into [0,255].
func channel(v int) uint8 {
	return uint8(math.Floor(float64(v) / channelRange * channelScale))
}

// velocity centres a [0,99] value around zero, giving roughly [-2, 1.96].
func velocity(v int) float64 {
	return (float64(v) - velCenter) / velDivisor
}
