package audio

import "fmt"

// Category groups sounds into logical slots per owner
type Category uint8

const (
	// CategoryNone requests a free slot; never stored in an occupied voice
	CategoryNone Category = iota
	CategoryMisc
	CategoryPain
	CategoryInteract
	CategoryAmbient
	CategoryTalk
	CategoryInterface
	categoryCount
)

var categoryNames = [categoryCount]string{
	"None", "Misc", "Pain", "Interact", "Ambient", "Talk", "Interface",
}

func (c Category) String() string {
	if c < categoryCount {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", uint8(c))
}

// Identity names a logical sound: one occupied voice per identity at a time
// The zero value marks an empty voice
type Identity struct {
	Category Category
	// Owner is the actor's stable index; negative for synthetic free-slot identities
	Owner int
	// Interruptable false protects an in-flight sound of the same identity
	Interruptable bool
}

// NewIdentity builds an identity bound to an actor index
func NewIdentity(cat Category, owner int, interruptable bool) Identity {
	return Identity{Category: cat, Owner: owner, Interruptable: interruptable}
}

// FreeSlot returns the marker identity that requests a fresh synthetic slot
func FreeSlot(interruptable bool) Identity {
	return Identity{Category: CategoryNone, Interruptable: interruptable}
}

// Same reports whether a and b address the same slot, ignoring Interruptable
func (id Identity) Same(other Identity) bool {
	return id.Category == other.Category && id.Owner == other.Owner
}

// IsEmpty reports whether id is the empty-voice sentinel
func (id Identity) IsEmpty() bool {
	return id.Category == CategoryNone && id.Owner == 0
}

// IsFreeSlot reports whether id asks for a synthetic slot
func (id Identity) IsFreeSlot() bool {
	return id.Category == CategoryNone
}

func (id Identity) String() string {
	mark := ""
	if !id.Interruptable {
		mark = "!"
	}
	return fmt.Sprintf("%s:%d%s", id.Category, id.Owner, mark)
}

// Packed script identity layout: owner<<4 | category<<1 | noOverride
const (
	packedNoOverride    = 1
	packedCategoryShift = 1
	packedCategoryMask  = 0x7
	packedOwnerShift    = 4
)

// PackedIdentity decodes the integer identity used by script sound calls
func PackedIdentity(id int32) Identity {
	return Identity{
		Category:      Category((id >> packedCategoryShift) & packedCategoryMask),
		Owner:         int(id >> packedOwnerShift),
		Interruptable: id&packedNoOverride == 0,
	}
}

// Packed encodes id into the script integer form
func (id Identity) Packed() int32 {
	v := int32(id.Owner)<<packedOwnerShift | int32(id.Category&packedCategoryMask)<<packedCategoryShift
	if !id.Interruptable {
		v |= packedNoOverride
	}
	return v
}
