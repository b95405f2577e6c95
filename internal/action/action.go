package action

// Kind is the tag that discriminates action variants.
// Tags are namespaced by the slice that owns them.
type Kind string

const (
	KindIncrement Kind = "counter/increment"
	KindDecrement Kind = "counter/decrement"
	KindSignIn    Kind = "users/signIn"
	KindSignOut   Kind = "users/signOut"

	// KindInit is dispatched once when a store is created. No slice owns it.
	KindInit Kind = "@@ducks/INIT"
)

// DefaultNum is the step used by the counter commands when none is given.
const DefaultNum int64 = 1

// Kinds lists the known kinds in declaration order.
var Kinds = []Kind{KindIncrement, KindDecrement, KindSignIn, KindSignOut}

// Known reports whether k belongs to the fixed vocabulary.
func (k Kind) Known() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Action is a sealed interface: only the variants in this package implement it.
type Action interface {
	Kind() Kind
	action()
}

// Increment adds Num to the counter.
type Increment struct {
	Num int64
}

func (Increment) Kind() Kind { return KindIncrement }
func (Increment) action()    {}

// Decrement subtracts Num from the counter.
type Decrement struct {
	Num int64
}

func (Decrement) Kind() Kind { return KindDecrement }
func (Decrement) action()    {}

// SignIn starts a session for UserName, replacing any current session.
type SignIn struct {
	UserName string
}

func (SignIn) Kind() Kind { return KindSignIn }
func (SignIn) action()    {}

// SignOut ends the current session.
type SignOut struct{}

func (SignOut) Kind() Kind { return KindSignOut }
func (SignOut) action()    {}

// Unknown carries a kind tag outside the vocabulary. Every reducer ignores it.
type Unknown struct {
	Type Kind
}

func (u Unknown) Kind() Kind { return u.Type }
func (Unknown) action()      {}

// Init returns the action a store dispatches when it is created.
func Init() Action {
	return Unknown{Type: KindInit}
}
