package dataset

import (
	"gonum.org/v1/gonum/mat"

	"github.com/recsys-go/memrec/pkg/errors"
	"github.com/recsys-go/memrec/pkg/log"
)

// Interactions is the dense user-by-artist play-count matrix together
// with its row and column indexes. Rows are users, columns are artists,
// entries are play counts, missing observations are zero.
type Interactions struct {
	users       []string
	artists     []string
	userIndex   map[string]int
	artistIndex map[string]int
	m           *mat.Dense
}

// Pivot reshapes a play table into an interaction matrix. Users become
// rows and artists become columns, both in sorted order so the layout
// is deterministic. Play counts of duplicate (user, artist) rows sum.
func Pivot(t PlayTable) (*Interactions, error) {
	if err := validateNonEmpty("Pivot", len(t)); err != nil {
		return nil, err
	}

	users := t.Users()
	artists := t.Artists()

	userIndex := make(map[string]int, len(users))
	for i, u := range users {
		userIndex[u] = i
	}
	artistIndex := make(map[string]int, len(artists))
	for j, a := range artists {
		artistIndex[a] = j
	}

	m := mat.NewDense(len(users), len(artists), nil)
	for _, e := range t {
		i := userIndex[e.UserID]
		j := artistIndex[e.ArtistName]
		m.Set(i, j, m.At(i, j)+e.Plays)
	}

	ia := &Interactions{
		users:       users,
		artists:     artists,
		userIndex:   userIndex,
		artistIndex: artistIndex,
		m:           m,
	}

	log.GetLoggerWithName("dataset").Info("pivot complete",
		log.OperationKey, log.OperationPivot,
		log.UsersKey, len(users),
		log.ArtistsKey, len(artists),
		log.SparsityKey, ia.Sparsity(),
	)
	return ia, nil
}

// Shape returns the (users, artists) dimensions.
func (ia *Interactions) Shape() (int, int) {
	return ia.m.Dims()
}

// Users returns the row labels in matrix order.
func (ia *Interactions) Users() []string { return ia.users }

// Artists returns the column labels in matrix order.
func (ia *Interactions) Artists() []string { return ia.artists }

// Matrix returns the underlying user-by-artist matrix. Callers must not
// mutate it.
func (ia *Interactions) Matrix() *mat.Dense { return ia.m }

// ArtistUserMatrix returns a copy of the matrix transposed to
// artist-by-user layout, the shape item-based similarity works on.
func (ia *Interactions) ArtistUserMatrix() *mat.Dense {
	var t mat.Dense
	t.CloneFrom(ia.m.T())
	return &t
}

// UserIndex returns the row of the given user.
func (ia *Interactions) UserIndex(userID string) (int, bool) {
	i, ok := ia.userIndex[userID]
	return i, ok
}

// ArtistIndex returns the column of the given artist.
func (ia *Interactions) ArtistIndex(artist string) (int, bool) {
	j, ok := ia.artistIndex[artist]
	return j, ok
}

// At returns the play count for a (user, artist) pair.
func (ia *Interactions) At(userID, artist string) (float64, error) {
	i, ok := ia.userIndex[userID]
	if !ok {
		return 0, errors.NewUnknownIDError("Interactions.At", "user", userID)
	}
	j, ok := ia.artistIndex[artist]
	if !ok {
		return 0, errors.NewUnknownIDError("Interactions.At", "artist", artist)
	}
	return ia.m.At(i, j), nil
}

// UserVector returns a copy of the play-count row for the given user.
func (ia *Interactions) UserVector(userID string) (*mat.VecDense, error) {
	i, ok := ia.userIndex[userID]
	if !ok {
		return nil, errors.NewUnknownIDError("Interactions.UserVector", "user", userID)
	}
	_, cols := ia.m.Dims()
	v := mat.NewVecDense(cols, nil)
	for j := 0; j < cols; j++ {
		v.SetVec(j, ia.m.At(i, j))
	}
	return v, nil
}

// ArtistVector returns a copy of the play-count column for the given artist.
func (ia *Interactions) ArtistVector(artist string) (*mat.VecDense, error) {
	j, ok := ia.artistIndex[artist]
	if !ok {
		return nil, errors.NewUnknownIDError("Interactions.ArtistVector", "artist", artist)
	}
	rows, _ := ia.m.Dims()
	v := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		v.SetVec(i, ia.m.At(i, j))
	}
	return v, nil
}

// Sparsity returns the fraction of zero entries in the matrix.
func (ia *Interactions) Sparsity() float64 {
	rows, cols := ia.m.Dims()
	if rows == 0 || cols == 0 {
		return 0
	}
	zeros := 0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if ia.m.At(i, j) == 0 {
				zeros++
			}
		}
	}
	return float64(zeros) / float64(rows*cols)
}
