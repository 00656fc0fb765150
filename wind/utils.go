package wind

// RelativeAngle returns the angle of the wind off a heading, in (-180, 180].
// Negative values are winds from the left hand side.
func RelativeAngle(heading, wind float64) float64 {
	twa := wind - heading
	if twa <= -180 {
		twa += 360
	}
	if twa > 180 {
		twa -= 360
	}

	return twa
}

// Heading is the inverse of RelativeAngle.
func Heading(relative, wind float64) float64 {
	heading := wind - relative
	if heading < 0 {
		heading += 360
	}
	if heading >= 360 {
		heading -= 360
	}

	return heading
}
