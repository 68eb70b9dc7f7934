package component

type WallTag struct{}

var WallTagComponent = NewComponent[WallTag]()
