package vehicle

// updateSmoke starts and stops the smoke emitters on edges only
// Wheel smoke, once started, keeps playing until the car stops
func (c *Controller) updateSmoke() {
	if c.isMoving {
		if !c.bodySmoke.IsPlaying() {
			c.bodySmoke.Play()
		}
		if c.steerPastThreshold() && !c.wheelSmoke.IsPlaying() {
			c.wheelSmoke.Play()
		}
		return
	}
	if c.bodySmoke.IsPlaying() {
		c.bodySmoke.Stop()
	}
	if c.wheelSmoke.IsPlaying() {
		c.wheelSmoke.Stop()
	}
}

// updateTrails recomputes isDrifting for the next tick and swaps the trail sets
func (c *Controller) updateTrails() {
	c.isDrifting = c.isMoving && c.steerPastThreshold()

	regular := c.isMoving && !c.isDrifting
	for _, tr := range c.regularTrails {
		setTrail(tr, regular)
	}
	for _, tr := range c.driftTrails {
		setTrail(tr, c.isDrifting)
	}
}

func setTrail(tr Trail, emitting bool) {
	tr.SetEmitting(emitting)
	col := tr.StartColor()
	if emitting {
		col.A = 0xff
	} else {
		col.A = 0
	}
	tr.SetStartColor(col)
	tr.SetEndColor(col)
}
