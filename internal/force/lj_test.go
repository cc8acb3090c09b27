package force_test

import (
	"errors"
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ljforce/internal/compute"
	"github.com/san-kum/ljforce/internal/force"
	"github.com/san-kum/ljforce/internal/neighbor"
	"github.com/san-kum/ljforce/internal/system"
)

// ljMagnitude is the signed radial force, positive when repulsive.
func ljMagnitude(eps, sigma, r float64) float64 {
	sr6 := math.Pow(sigma/r, 6)
	return 24 * eps * (2*sr6*sr6 - sr6) / r
}

func pair(r float64, t0, t1 int, ntypes int) *system.System {
	s := system.New(ntypes, 2)
	s.AddParticle(system.Vec3{0, 0, 0}, t0)
	s.AddParticle(system.Vec3{r, 0, 0}, t1)
	return s
}

func pairList(iter force.Iteration) *neighbor.List {
	if iter.Half() {
		return neighbor.FromRows(neighbor.CSR, true, [][]int{{1}, {}})
	}
	return neighbor.FromRows(neighbor.CSR, false, [][]int{{1}, {0}})
}

func newLJ(ntypes int, iter force.Iteration, b compute.Backend) *force.LJ {
	lj := force.New(ntypes, iter, force.WithBackend(b))
	Expect(lj.Configure(1, 1, 1.0, 1.0, 2.5, 1)).To(Succeed())
	return lj
}

func expectVec(got, want system.Vec3, tol float64) {
	for k := 0; k < 3; k++ {
		ExpectWithOffset(1, got[k]).To(BeNumerically("~", want[k], tol), "component %d", k)
	}
}

func cpuBackend(workers int) *compute.CPUBackend {
	b := compute.NewCPUBackend(workers)
	b.MinChunk = 1
	return b
}

var iterations = []force.Iteration{force.NeighFull, force.NeighHalf}

var _ = Describe("LJ", func() {
	Describe("Name", func() {
		It("distinguishes the traversal", func() {
			Expect(force.New(1, force.NeighHalf).Name()).To(Equal("ForceLJNeighHalf"))
			Expect(force.New(1, force.NeighFull).Name()).To(Equal("ForceLJNeighFull"))
		})
	})

	Describe("Configure", func() {
		var lj *force.LJ

		BeforeEach(func() {
			lj = force.New(3, force.NeighHalf, force.WithBackend(compute.NewSerialBackend()))
		})

		It("writes both orderings of a pair", func() {
			Expect(lj.Configure(1, 3, 0.8, 1.2, 3.0, 2)).To(Succeed())

			p13, err := lj.Params(1, 3)
			Expect(err).NotTo(HaveOccurred())
			p31, err := lj.Params(3, 1)
			Expect(err).NotTo(HaveOccurred())

			Expect(p13).To(Equal(p31))
			Expect(p13.Lj1).To(BeNumerically("~", 48*0.8*math.Pow(1.2, 12), 1e-9))
			Expect(p13.Lj2).To(BeNumerically("~", 24*0.8*math.Pow(1.2, 6), 1e-9))
			Expect(p13.Cutsq).To(BeNumerically("~", 9.0, 1e-12))
		})

		It("keeps the whole table symmetric", func() {
			Expect(lj.InitCoeff("pair_coeff 1 1 1.0 1.0 2.5 1")).To(Succeed())
			Expect(lj.InitCoeff("pair_coeff 2 1 0.5 1.1 2.8 1")).To(Succeed())
			Expect(lj.InitCoeff("pair_coeff 2 3 1.5 0.9 2.2 1")).To(Succeed())

			table := lj.Table().Snapshot()
			n := lj.Table().NTypes()
			for a := 0; a < n; a++ {
				for b := 0; b < n; b++ {
					Expect(table[a*n+b]).To(Equal(table[b*n+a]), "entry (%d,%d)", a, b)
				}
			}
		})

		It("propagates the repeat count to the published table", func() {
			Expect(lj.Configure(2, 1, 1.0, 1.0, 2.5, 7)).To(Succeed())

			p, err := lj.Params(1, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.NRepeat).To(Equal(7))
		})

		It("is idempotent", func() {
			Expect(lj.Configure(1, 2, 1.0, 1.0, 2.5, 1)).To(Succeed())
			once := append([]force.PairParams{}, lj.Table().Snapshot()...)

			Expect(lj.Configure(1, 2, 1.0, 1.0, 2.5, 1)).To(Succeed())
			Expect(lj.Table().Snapshot()).To(Equal(once))
		})

		It("leaves unconfigured pairs at zero", func() {
			Expect(lj.Configure(1, 1, 1.0, 1.0, 2.5, 1)).To(Succeed())

			p, err := lj.Params(2, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(p).To(Equal(force.PairParams{}))
		})

		It("rejects types outside the table", func() {
			for _, tt := range [][2]int{{0, 1}, {1, 4}, {4, 4}, {-1, 2}} {
				err := lj.Configure(tt[0], tt[1], 1.0, 1.0, 2.5, 1)
				Expect(err).To(MatchError(force.ErrTypeOutOfRange))

				var idx *force.IndexError
				Expect(errors.As(err, &idx)).To(BeTrue())
				Expect(idx.Len).To(Equal(3))
				Expect(idx.Particle).To(Equal(-1))
			}
			Expect(lj.Table().Snapshot()).To(Equal(make([]force.PairParams, 9)))
		})

		It("rejects negative parameters", func() {
			Expect(lj.Configure(1, 1, -1.0, 1.0, 2.5, 1)).To(MatchError(force.ErrParameterBounds))
			Expect(lj.Configure(1, 1, 1.0, 1.0, -2.5, 1)).To(MatchError(force.ErrParameterBounds))
		})

		It("reports out-of-range types before checking parameter bounds", func() {
			err := lj.Configure(5, 1, -1.0, 1.0, 2.5, 1)
			Expect(err).To(MatchError(force.ErrTypeOutOfRange))

			var idx *force.IndexError
			Expect(errors.As(err, &idx)).To(BeTrue())
			Expect(idx.Index).To(Equal(4))
		})

		It("rejects NaN parameters", func() {
			for _, args := range [][3]float64{
				{math.NaN(), 1.0, 2.5},
				{1.0, math.NaN(), 2.5},
				{1.0, 1.0, math.NaN()},
			} {
				Expect(lj.Configure(1, 1, args[0], args[1], args[2], 1)).To(MatchError(force.ErrParameterBounds))
			}
			Expect(lj.Table().Snapshot()).To(Equal(make([]force.PairParams, 9)))
		})

		It("rejects malformed commands", func() {
			Expect(lj.InitCoeff("pair_coeff 1 1 1.0")).To(MatchError(force.ErrBadCommand))
		})
	})

	Describe("ParamTable", func() {
		It("only exposes staged values after Publish", func() {
			t := force.NewParamTable(2)
			before := t.Snapshot()
			p := force.NewPairParams(1.0, 1.0, 2.5, 1)

			Expect(t.Stage(0, 1, p)).To(Succeed())

			got, err := t.Get(1, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(force.PairParams{}))

			staged, err := t.Staged(1, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(staged).To(Equal(p))

			t.Publish()

			got, err = t.Get(1, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(p))
			Expect(before[1]).To(Equal(force.PairParams{}), "old snapshot must not change")
		})
	})

	Describe("Compute", func() {
		for _, iter := range iterations {
			iter := iter
			Context(iter.String(), func() {
				It("matches the analytic force for two particles", func() {
					for _, r := range []float64{1.0, 1.5} {
						lj := newLJ(1, iter, compute.NewSerialBackend())
						s := pair(r, 0, 0, 1)

						Expect(lj.Compute(s, pairList(iter))).To(Succeed())

						mag := ljMagnitude(1.0, 1.0, r)
						expectVec(s.F[0], system.Vec3{-mag, 0, 0}, 1e-12)
						expectVec(s.F[1], system.Vec3{mag, 0, 0}, 1e-12)
					}
				})

				It("is repulsive inside the potential minimum and attractive outside", func() {
					lj := newLJ(1, iter, compute.NewSerialBackend())

					near := pair(1.0, 0, 0, 1)
					Expect(lj.Compute(near, pairList(iter))).To(Succeed())
					Expect(near.F[0][0]).To(BeNumerically("<", 0))
					Expect(near.F[1][0]).To(BeNumerically(">", 0))

					far := pair(1.5, 0, 0, 1)
					Expect(lj.Compute(far, pairList(iter))).To(Succeed())
					Expect(far.F[0][0]).To(BeNumerically(">", 0))
					Expect(far.F[1][0]).To(BeNumerically("<", 0))
				})

				It("obeys Newton's third law for an isolated pair", func() {
					lj := newLJ(1, iter, cpuBackend(4))
					s := system.New(1, 2)
					s.AddParticle(system.Vec3{0.1, -0.2, 0.3}, 0)
					s.AddParticle(system.Vec3{0.9, 0.4, -0.5}, 0)

					Expect(lj.Compute(s, pairList(iter))).To(Succeed())
					Expect(s.F[0].Norm()).To(BeNumerically(">", 0))
					expectVec(s.F[0].Add(s.F[1]), system.Vec3{}, 1e-12)
				})

				It("contributes nothing at or beyond the cutoff", func() {
					lj := newLJ(1, iter, compute.NewSerialBackend())

					for _, r := range []float64{2.5, 2.6, 10} {
						s := pair(r, 0, 0, 1)
						Expect(lj.Compute(s, pairList(iter))).To(Succeed())
						Expect(s.F[0]).To(Equal(system.Vec3{}))
						Expect(s.F[1]).To(Equal(system.Vec3{}))
					}

					s := pair(2.5-1e-9, 0, 0, 1)
					Expect(lj.Compute(s, pairList(iter))).To(Succeed())
					Expect(s.F[0][0]).NotTo(BeZero())
					Expect(s.F[0].IsValid()).To(BeTrue())
				})

				It("gives zero force for unconfigured type pairs", func() {
					lj := force.New(2, iter, force.WithBackend(compute.NewSerialBackend()))
					Expect(lj.Configure(1, 1, 1.0, 1.0, 2.5, 1)).To(Succeed())

					for _, types := range [][2]int{{0, 1}, {1, 0}, {1, 1}} {
						s := pair(1.2, types[0], types[1], 2)
						Expect(lj.Compute(s, pairList(iter))).To(Succeed())
						Expect(s.F[0]).To(Equal(system.Vec3{}))
						Expect(s.F[1]).To(Equal(system.Vec3{}))
					}
				})

				It("adds to existing forces", func() {
					lj := newLJ(1, iter, compute.NewSerialBackend())
					s := pair(1.3, 0, 0, 1)
					s.F[0] = system.Vec3{1, 2, 3}

					Expect(lj.Compute(s, pairList(iter))).To(Succeed())
					Expect(lj.Compute(s, pairList(iter))).To(Succeed())

					mag := ljMagnitude(1.0, 1.0, 1.3)
					expectVec(s.F[0], system.Vec3{1 - 2*mag, 2, 3}, 1e-12)
					expectVec(s.F[1], system.Vec3{2 * mag, 0, 0}, 1e-12)
				})
			})
		}

		It("counts completed steps and resets on reconfiguration", func() {
			lj := newLJ(1, force.NeighFull, compute.NewSerialBackend())
			Expect(lj.Step()).To(Equal(0))

			for i := 0; i < 3; i++ {
				Expect(lj.Compute(pair(1.2, 0, 0, 1), pairList(force.NeighFull))).To(Succeed())
			}
			Expect(lj.Step()).To(Equal(3))

			Expect(lj.Configure(1, 1, 1.0, 1.0, 3.0, 1)).To(Succeed())
			Expect(lj.Step()).To(Equal(0))
		})

		It("picks up a reconfigured pair on the next call", func() {
			lj := newLJ(1, force.NeighHalf, compute.NewSerialBackend())
			s := pair(2.7, 0, 0, 1)

			Expect(lj.Compute(s, pairList(force.NeighHalf))).To(Succeed())
			Expect(s.F[0]).To(Equal(system.Vec3{}))

			Expect(lj.Configure(1, 1, 1.0, 1.0, 3.0, 1)).To(Succeed())
			Expect(lj.Compute(s, pairList(force.NeighHalf))).To(Succeed())
			expectVec(s.F[0], system.Vec3{-ljMagnitude(1.0, 1.0, 2.7), 0, 0}, 1e-12)
		})

		Context("with invalid input", func() {
			var lj *force.LJ

			BeforeEach(func() {
				lj = newLJ(1, force.NeighHalf, compute.NewSerialBackend())
			})

			It("fails on an out-of-range particle type", func() {
				s := pair(1.2, 0, 2, 1)
				err := lj.Compute(s, pairList(force.NeighHalf))

				Expect(err).To(MatchError(force.ErrTypeOutOfRange))
				Expect(lj.Step()).To(Equal(0))
			})

			It("fails on an out-of-range neighbor index", func() {
				s := pair(1.2, 0, 0, 1)
				nl := neighbor.FromRows(neighbor.CSR, true, [][]int{{5}, {}})

				var idx *force.IndexError
				err := lj.Compute(s, nl)
				Expect(errors.As(err, &idx)).To(BeTrue())
				Expect(idx.Wrapped).To(Equal(force.ErrParticleOutOfRange))
				Expect(idx.Particle).To(Equal(0))
			})

			It("fails when the list traversal does not match the kernel", func() {
				s := pair(1.2, 0, 0, 1)

				Expect(lj.Compute(s, pairList(force.NeighFull))).To(MatchError(force.ErrListMismatch))
				Expect(s.F).To(Equal(system.Forces{{}, {}}))
				Expect(lj.Step()).To(Equal(0))

				full := newLJ(1, force.NeighFull, compute.NewSerialBackend())
				Expect(full.Compute(s, pairList(force.NeighHalf))).To(MatchError(force.ErrListMismatch))
			})

			It("leaves the force buffer untouched when a row is invalid", func() {
				for _, b := range []compute.Backend{compute.NewSerialBackend(), cpuBackend(4)} {
					half := newLJ(1, force.NeighHalf, b)
					s := system.New(1, 4)
					for k := 0; k < 4; k++ {
						s.AddParticle(system.Vec3{1.2 * float64(k), 0, 0}, 0)
					}
					// row 0 has a valid neighbor before the bad index
					nl := neighbor.FromRows(neighbor.CSR, true, [][]int{{1, 9}, {2}, {3}, {}})

					Expect(half.Compute(s, nl)).To(MatchError(force.ErrParticleOutOfRange))
					Expect(s.F).To(Equal(make(system.Forces, 4)))
					Expect(half.Step()).To(Equal(0))
				}
			})

			It("fails when the list has fewer rows than local particles", func() {
				s := pair(1.2, 0, 0, 1)
				nl := neighbor.FromRows(neighbor.CSR, true, [][]int{{1}})

				Expect(lj.Compute(s, nl)).To(MatchError(force.ErrDimensionMismatch))
			})

			It("fails when the force buffer is short", func() {
				s := pair(1.2, 0, 0, 1)
				s.F = s.F[:1]

				Expect(lj.Compute(s, pairList(force.NeighHalf))).To(MatchError(force.ErrDimensionMismatch))
			})
		})
	})

	Describe("traversal equivalence", func() {
		var (
			s        *system.System
			fullList *neighbor.List
			halfList *neighbor.List
		)

		configure := func(lj *force.LJ) {
			Expect(lj.InitCoeff("pair_coeff 1 1 1.0 1.0 2.5 1")).To(Succeed())
			Expect(lj.InitCoeff("pair_coeff 1 2 0.7 1.05 2.5 1")).To(Succeed())
			Expect(lj.InitCoeff("pair_coeff 2 2 1.3 0.95 2.2 1")).To(Succeed())
		}

		run := func(iter force.Iteration, b compute.Backend) system.Forces {
			lj := force.New(2, iter, force.WithBackend(b))
			configure(lj)
			s.ZeroForces()
			nl := fullList
			if iter.Half() {
				nl = halfList
			}
			Expect(lj.Compute(s, nl)).To(Succeed())
			return append(system.Forces{}, s.F...)
		}

		BeforeEach(func() {
			var err error
			s, err = system.NewLattice(system.LatticeFCC, 1.6796, 4, 4, 4, 2)
			Expect(err).NotTo(HaveOccurred())

			rng := rand.New(rand.NewSource(7))
			for i := range s.X {
				for k := 0; k < 3; k++ {
					s.X[i][k] += 0.1 * (rng.Float64() - 0.5)
				}
			}

			b := compute.NewSerialBackend()
			fullList, err = neighbor.BuildCSR(b, s.X, s.NLocal, 2.8, false)
			Expect(err).NotTo(HaveOccurred())
			halfList, err = neighbor.BuildMapConstr(s.X, s.NLocal, 2.8, true)
			Expect(err).NotTo(HaveOccurred())
		})

		It("gives the same net force per particle for full and half traversal", func() {
			ref := run(force.NeighFull, compute.NewSerialBackend())

			for _, b := range []compute.Backend{compute.NewSerialBackend(), cpuBackend(4), cpuBackend(16)} {
				full := run(force.NeighFull, b)
				half := run(force.NeighHalf, b)
				for i := range ref {
					expectVec(full[i], ref[i], 1e-9)
					expectVec(half[i], ref[i], 1e-9)
				}
			}
		})

		It("sums to zero net force", func() {
			f := run(force.NeighHalf, cpuBackend(8))

			var net system.Vec3
			for _, v := range f {
				net = net.Add(v)
			}
			expectVec(net, system.Vec3{}, 1e-8)
		})
	})

	Describe("ghost particles", func() {
		var (
			s      *system.System
			nlocal int
			want   []system.Vec3
		)

		BeforeEach(func() {
			var err error
			s, err = system.NewLattice(system.LatticeFCC, 1.6796, 3, 3, 3, 1)
			Expect(err).NotTo(HaveOccurred())

			rng := rand.New(rand.NewSource(11))
			for i := range s.X {
				for k := 0; k < 3; k++ {
					s.X[i][k] += 0.1 * (rng.Float64() - 0.5)
				}
			}
			nlocal = len(s.X) / 2
			s.NLocal = nlocal

			want = make([]system.Vec3, nlocal)
			for i := 0; i < nlocal; i++ {
				for j := range s.X {
					if j == i {
						continue
					}
					d := s.X[i].Sub(s.X[j])
					if r := d.Norm(); r < 2.5 {
						want[i] = want[i].Add(d.Scale(ljMagnitude(1.0, 1.0, r) / r))
					}
				}
			}
		})

		for _, kind := range []neighbor.Kind{neighbor.CSR, neighbor.CSRMapConstr} {
			It("gives local particles the same force in both traversals with a "+kind.String()+" list", func() {
				for _, b := range []compute.Backend{compute.NewSerialBackend(), cpuBackend(4)} {
					for _, iter := range iterations {
						nl, err := neighbor.Build(kind, b, s.X, nlocal, 2.8, iter.Half())
						Expect(err).NotTo(HaveOccurred())
						Expect(nl.NumRows()).To(Equal(nlocal))

						lj := newLJ(1, iter, b)
						s.ZeroForces()
						Expect(lj.Compute(s, nl)).To(Succeed())
						for i := 0; i < nlocal; i++ {
							expectVec(s.F[i], want[i], 1e-9)
						}
					}
				}
			})
		}
	})

	Describe("half traversal under contention", func() {
		It("does not lose updates to a shared neighbor", func() {
			const n = 400
			s := system.New(1, n+1)
			s.AddParticle(system.Vec3{}, 0)

			rows := make([][]int, n+1)
			rows[0] = []int{}
			for i := 1; i <= n; i++ {
				theta := math.Acos(1 - 2*(float64(i)-0.5)/n)
				phi := math.Pi * (1 + math.Sqrt(5)) * float64(i)
				r := 1.05 + 0.3*float64(i%7)/7
				s.AddParticle(system.Vec3{
					r * math.Sin(theta) * math.Cos(phi),
					r * math.Sin(theta) * math.Sin(phi),
					r * math.Cos(theta),
				}, 0)
				rows[i] = []int{0}
			}
			nl := neighbor.FromRows(neighbor.CSR, true, rows)

			var want system.Vec3
			for i := 1; i <= n; i++ {
				d := s.X[i].Sub(s.X[0])
				want = want.Sub(d.Scale(ljMagnitude(1.0, 1.0, d.Norm()) / d.Norm()))
			}

			for trial := 0; trial < 5; trial++ {
				lj := newLJ(1, force.NeighHalf, cpuBackend(8))
				s.ZeroForces()
				Expect(lj.Compute(s, nl)).To(Succeed())
				expectVec(s.F[0], want, 1e-9)
			}
		})
	})
})
