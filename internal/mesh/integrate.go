package mesh

// integrate advances all node positions by one fixed sub-step of
// semi-implicit Euler:
//
//	vel = clamp((vel + force*dt) / damping, -vmax, vmax)
//	pos += vel
//
// Damping > 1 bleeds energy every step so the mesh converges back to its
// rest shape; without it continuous spectrum forcing would accumulate
// energy indefinitely.
func integrate(g *grid, forces []vec, dt float64, tun *Tuning) {
	vmax := tun.MaxVelocity
	inv := 1 / tun.Damping
	for i := range g.nodes {
		nd := &g.nodes[i]
		nd.vel = nd.vel.add(forces[i].scale(dt)).scale(inv)
		nd.vel.x = clamp(nd.vel.x, -vmax, vmax)
		nd.vel.y = clamp(nd.vel.y, -vmax, vmax)
		nd.pos = nd.pos.add(nd.vel)
	}
}
